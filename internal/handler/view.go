package handler

import (
	"context"
	"encoding/json"

	"paxdash/internal/dashboard"
)

// cachedView is what the view cache stores for one state.
type cachedView struct {
	View  dashboard.View `json:"view"`
	Chart string         `json:"chart,omitempty"` // Vega-Lite JSON
}

// view computes the view for s, consulting the cache first. The returned
// view carries no Rows when it comes from the cache.
func (h *Handler) view(ctx context.Context, d *loaded, s dashboard.State) (cachedView, error) {
	s = d.ds.Options.Resolve(s)
	key := d.hash + ":" + s.Key()

	if raw, ok := h.cache.Get(ctx, key); ok {
		var cv cachedView
		if err := json.Unmarshal(raw, &cv); err == nil {
			h.logger.Debug("view cache hit", "key", key)
			return cv, nil
		}
		h.logger.Warn("discarding unreadable cached view", "key", key)
	}

	v := dashboard.Compute(d.ds, s)
	chart, err := v.ChartJSON()
	if err != nil {
		return cachedView{}, err
	}
	cv := cachedView{View: v, Chart: chart}

	if raw, err := json.Marshal(cv); err == nil {
		h.cache.Set(ctx, key, raw)
	} else {
		h.logger.Warn("view not cached", "key", key, "error", err)
	}
	return cv, nil
}
