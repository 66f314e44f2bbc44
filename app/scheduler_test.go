package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReloadSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dataset.ReloadSchedule = "@every 1s"
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	require.False(t, svc.Analyzer.Status().Loaded)
	stop, err := svc.startReloadSchedule(context.Background())
	require.NoError(t, err)
	defer stop()

	require.Eventually(t, func() bool {
		st := svc.Analyzer.Status()
		return st.Loaded && st.Rows == 2
	}, 3*time.Second, 50*time.Millisecond)
}

func TestReloadSchedule_Disabled(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	stop, err := svc.startReloadSchedule(context.Background())
	require.NoError(t, err)
	stop()
}

func TestReloadSchedule_InvalidSpec(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()

	svc.cfg.Dataset.ReloadSchedule = "not a schedule"
	_, err = svc.startReloadSchedule(context.Background())
	require.Error(t, err)
}
