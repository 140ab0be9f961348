package services

import (
	"os"
	"testing"

	"github.com/yieldlabs-io/yield-ledger/internal/observability/metrics"
)

func TestMain(m *testing.M) {
	metrics.Init(0)
	os.Exit(m.Run())
}
