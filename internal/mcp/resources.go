package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/claude/liftmax/internal/engine"
	"github.com/claude/liftmax/internal/models"
	"github.com/claude/liftmax/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) dashboard(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)
	now := time.Now()

	est, err := h.estimatorFor(ctx, uid)
	if err != nil {
		return nil, err
	}

	profile, err := h.ds.GetProfile(ctx, uid)
	if err != nil {
		if !errors.Is(err, storage.ErrNoProfile) {
			h.log.Warn("dashboard: profile lookup failed", "error", err)
		}
		profile = nil
	}

	type entry struct {
		engine.BaselineEstimate
		Category *engine.StrengthCategory `json:"category,omitempty"`
	}

	entries := make([]entry, 0, len(models.KnownLifts()))
	for _, lift := range models.KnownLifts() {
		sets, tests, err := h.loadRecords(ctx, uid, lift, now)
		if err != nil {
			return nil, err
		}

		if profile == nil {
			entries = append(entries, entry{BaselineEstimate: est.EstimateBaseline(lift, sets, tests, now)})
			continue
		}

		ce, err := est.EstimateWithCategory(lift, sets, tests, *profile, now)
		if err != nil {
			h.log.Warn("dashboard: classification failed", "lift", lift, "error", err)
			entries = append(entries, entry{BaselineEstimate: est.EstimateBaseline(lift, sets, tests, now)})
			continue
		}
		entries = append(entries, entry{BaselineEstimate: ce.BaselineEstimate, Category: &ce.Category})
	}

	data, err := json.Marshal(map[string]any{
		"date":  now.Format("2006-01-02"),
		"lifts": entries,
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
