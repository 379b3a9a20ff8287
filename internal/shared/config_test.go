package shared

import (
	"testing"
	"time"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("HOTELS_API_RPS", "12")
	t.Setenv("WIZARD_CLOSE_DELAY_MS", "500")
	t.Setenv("IMPORT_WORKERS", "lots")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("WIZARD_BLOCKING_STEPS", "rates, ,availability")

	c := Load()
	if c.HTTPAddr != ":9999" || c.HotelsAPIRPS != 12 {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.WizardCloseDelay != 500*time.Millisecond {
		t.Fatalf("close delay = %s", c.WizardCloseDelay)
	}
	if len(c.WizardBlockingSteps) != 2 || c.WizardBlockingSteps[1] != "availability" {
		t.Fatalf("blocking steps = %q", c.WizardBlockingSteps)
	}
	if c.ImportWorkers != 4 {
		t.Fatalf("bad integer should fall back, got %d", c.ImportWorkers)
	}
	if c.CacheTTL != 15*time.Minute || c.RefreshCron != "@every 5m" {
		t.Fatalf("defaults: ttl=%s cron=%q", c.CacheTTL, c.RefreshCron)
	}
}
