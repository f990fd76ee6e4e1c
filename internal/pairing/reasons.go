package pairing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"serveur/internal/core"
	"serveur/internal/llm"
)

const DefaultMaxReasonPairings = 25

// ReasonEnricher asks the model for a one-sentence justification per
// pairing. It never fails the caller: on any error the input is returned
// unchanged alongside the error.
type ReasonEnricher struct {
	llm llm.Client
	max int
	log *zap.SugaredLogger
}

func NewReasonEnricher(client llm.Client, max int, log *zap.SugaredLogger) *ReasonEnricher {
	if max <= 0 {
		max = DefaultMaxReasonPairings
	}
	return &ReasonEnricher{llm: client, max: max, log: log}
}

type reasonInput struct {
	DishName   string   `json:"dish_name"`
	DishTags   []string `json:"dish_tags"`
	WineName   string   `json:"wine_name"`
	WineType   string   `json:"wine_type"`
	WineRegion *string  `json:"wine_region"`
	WineGrape  *string  `json:"wine_grape"`
}

type pairKey struct {
	dish string
	wine string
}

// Enrich fills Reason on a copy of pairings. Only the first max pairings
// are sent; any pairing whose (dish, wine) names match a returned reason
// receives it.
func (e *ReasonEnricher) Enrich(
	ctx context.Context,
	sections []core.Section,
	wines []core.Wine,
	pairings []core.Pairing,
) core.BestEffort[[]core.Pairing] {

	if len(pairings) == 0 || e.llm == nil {
		return core.Ok(pairings)
	}

	batch := pairings
	if len(batch) > e.max {
		batch = batch[:e.max]
	}

	menu := &core.Document{Sections: sections, Wines: wines}

	inputs := make([]reasonInput, 0, len(batch))
	for _, p := range batch {
		if p.WineName == nil {
			continue
		}
		in := reasonInput{DishName: p.DishName, DishTags: []string{}, WineName: *p.WineName, WineType: string(core.WineOther)}
		if item, ok := menu.Item(p.SectionIndex, p.ItemIndex); ok {
			in.DishTags = append(in.DishTags, item.Tags...)
		}
		if w, ok := menu.WineByName(*p.WineName); ok {
			in.WineType = string(w.Type)
			in.WineRegion = w.Region
			in.WineGrape = w.Grape
		}
		inputs = append(inputs, in)
	}
	if len(inputs) == 0 {
		return core.Ok(pairings)
	}

	payload, err := json.Marshal(map[string]any{"pairings": inputs})
	if err != nil {
		return core.Fallback(pairings, fmt.Errorf("marshal reason input: %w", err))
	}

	req := llm.UserRequest(llm.TextPart(string(payload)))
	req.System = llm.BuildReasonPrompt()
	req.JSON = true
	req.Temperature = 0.2

	text, err := e.llm.Generate(ctx, req)
	if err != nil {
		e.log.Warnw("pairing reasons unavailable", "error", err)
		return core.Fallback(pairings, fmt.Errorf("generate reasons: %w", err))
	}

	reasons, err := parseReasons(text)
	if err != nil {
		e.log.Warnw("pairing reasons unparsable", "error", err)
		return core.Fallback(pairings, err)
	}

	out := make([]core.Pairing, len(pairings))
	copy(out, pairings)
	applied := 0
	for i := range out {
		if out[i].WineName == nil {
			continue
		}
		if reason, ok := reasons[pairKey{out[i].DishName, *out[i].WineName}]; ok {
			r := reason
			out[i].Reason = &r
			applied++
		}
	}

	e.log.Infow("pairing reasons applied", "requested", len(inputs), "applied", applied)
	return core.Ok(out)
}

func parseReasons(text string) (map[pairKey]string, error) {
	obj, err := llm.ParseObject(text)
	if err != nil {
		return nil, fmt.Errorf("parse reasons: %w", err)
	}

	list, ok := obj["reasons"].([]any)
	if !ok {
		return nil, fmt.Errorf("parse reasons: missing reasons array")
	}

	out := make(map[pairKey]string, len(list))
	for _, v := range list {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		dish, _ := m["dish_name"].(string)
		wine, _ := m["wine_name"].(string)
		reason, _ := m["reason"].(string)
		reason = strings.TrimSpace(reason)
		if dish == "" || wine == "" || reason == "" {
			continue
		}
		out[pairKey{dish, wine}] = reason
	}
	return out, nil
}
