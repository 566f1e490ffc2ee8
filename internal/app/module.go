package app

import (
	"fmt"

	"github.com/shandysiswandi/goexemplar/internal/exemplar"
)

func (a *App) initModules() error {
	if a.config.GetBool("modules.exemplar.enabled") {
		closer, err := exemplar.New(exemplar.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.uuid,
			NumberID:  a.snowflake,
		})
		if err != nil {
			return fmt.Errorf("init module exemplar: %w", err)
		}
		if closer != nil {
			a.closerFn["Exemplar"] = closer
		}
	}

	return nil
}
