package worker

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

// NurtureTicker is an optional in-process trigger for environments that
// have no external cron: it runs the full nurture pass on a fixed
// interval. Production deployments keep it disabled and call the HTTP
// trigger from the platform scheduler instead.
type NurtureTicker struct {
	uc           *usecase.RunNurtureUseCase
	tickInterval time.Duration
}

func NewNurtureTicker(uc *usecase.RunNurtureUseCase, tickInterval time.Duration) *NurtureTicker {
	return &NurtureTicker{
		uc:           uc,
		tickInterval: tickInterval,
	}
}

func (w *NurtureTicker) Start(ctx context.Context) {
	log.Printf("🕒 Nurture ticker started (every %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Nurture ticker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *NurtureTicker) runOnce(ctx context.Context) {
	summary, err := w.uc.Execute(ctx, entity.AllCheckpoints)
	if err != nil {
		log.Printf("❌ Nurture tick failed: %v", err)
		return
	}

	if summary.Processed > 0 {
		log.Printf("✅ Nurture tick: processed=%d sent=%d skipped=%d failed=%d",
			summary.Processed, summary.Sent, summary.Skipped, summary.Failed)
	}
}
