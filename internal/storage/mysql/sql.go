package mysql

const upsertPackageSQL = `
INSERT INTO packages
  (title, destination, duration_days, price, image, highlights, active)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  id            = LAST_INSERT_ID(id),
  destination   = VALUES(destination),
  duration_days = VALUES(duration_days),
  price         = VALUES(price),
  image         = VALUES(image),
  highlights    = VALUES(highlights),
  active        = VALUES(active),
  updated_at    = CURRENT_TIMESTAMP
`

const selectPackageCols = `id, title, destination, duration_days, price, COALESCE(image, ''), highlights, active`

const listPackagesSQL = `
SELECT ` + selectPackageCols + `
FROM packages
WHERE active = 1
ORDER BY price, id
`

const getPackageSQL = `
SELECT ` + selectPackageCols + `
FROM packages
WHERE id = ?
`

const insertBookingSQL = `
INSERT INTO bookings
  (id, package_id, traveler_name, email, phone, travelers, travel_date, amount, currency,
   status, order_id, payment_id, failure_reason, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getBookingSQL = `
SELECT id, package_id, traveler_name, email, phone, travelers, DATE_FORMAT(travel_date, '%Y-%m-%d'),
       amount, currency, status, order_id, payment_id, failure_reason, created_at, updated_at
FROM bookings
WHERE id = ?
`

// Payment fields are replaced as a unit.
const updateBookingPaymentSQL = `
UPDATE bookings
SET status = ?, payment_id = ?, failure_reason = ?, updated_at = ?
WHERE id = ?
`

const bookingExistsSQL = `SELECT 1 FROM bookings WHERE id = ?`
