package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// startReloadSchedule reloads the dataset on the configured cron spec. The
// returned function stops the scheduler and waits for a running reload.
func (s *Service) startReloadSchedule(ctx context.Context) (func(), error) {
	spec := s.cfg.Dataset.ReloadSchedule
	if spec == "" {
		return func() {}, nil
	}
	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc(spec, func() {
		st, err := s.Analyzer.Reload(ctx)
		if err != nil {
			s.log.Errorf("scheduled dataset reload: %v", err)
			return
		}
		s.log.Infow("scheduled dataset reload", map[string]any{"rows": st.Rows, "source": st.Source})
	})
	if err != nil {
		return nil, fmt.Errorf("reload schedule %q: %w", spec, err)
	}
	c.Start()
	return func() { <-c.Stop().Done() }, nil
}
