package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/caretaker-backend/internal/analytics"
)

const dayLayout = "2006-01-02"

type observationDoc struct {
	Date       string `yaml:"date"`
	Water      string `yaml:"water"`
	Food       string `yaml:"food"`
	Sleep      string `yaml:"sleep"`
	Exercise   string `yaml:"exercise"`
	MentalLoad string `yaml:"mental_load"`
}

type historyDoc struct {
	observationDoc `yaml:",inline"`
	Decision       *analytics.Decision `yaml:"decision"`
}

// windowDoc is the input file. JSON documents parse as YAML.
type windowDoc struct {
	Today   *observationDoc `yaml:"today"`
	History []historyDoc    `yaml:"history"`
}

type window struct {
	today   *analytics.Observation
	history analytics.HistoryWindow
}

// series is the window the detectors run over: today, when present, followed
// by the history.
func (w window) series() analytics.HistoryWindow {
	if w.today == nil {
		return w.history
	}
	out := make(analytics.HistoryWindow, 0, len(w.history)+1)
	out = append(out, analytics.HistoryEntry{Observation: *w.today})
	return append(out, w.history...)
}

func loadWindow(path string) (window, error) {
	if strings.TrimSpace(path) == "" {
		return window{}, fmt.Errorf("--file is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return window{}, fmt.Errorf("read window: %w", err)
	}
	var doc windowDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return window{}, fmt.Errorf("parse window %s: %w", path, err)
	}

	var w window
	if doc.Today != nil {
		o, err := doc.Today.observation()
		if err != nil {
			return window{}, fmt.Errorf("today: %w", err)
		}
		w.today = &o
	}
	for i, h := range doc.History {
		o, err := h.observation()
		if err != nil {
			return window{}, fmt.Errorf("history[%d]: %w", i, err)
		}
		w.history = append(w.history, analytics.HistoryEntry{Observation: o, Decision: h.Decision})
	}
	return w, nil
}

func (d observationDoc) observation() (analytics.Observation, error) {
	o := analytics.Observation{
		Water:      d.Water,
		Food:       d.Food,
		Sleep:      d.Sleep,
		Exercise:   d.Exercise,
		MentalLoad: d.MentalLoad,
	}
	if d.Date != "" {
		t, err := time.Parse(dayLayout, d.Date)
		if err != nil {
			return o, fmt.Errorf("date must be YYYY-MM-DD: %q", d.Date)
		}
		o.Date = t
	}
	return o, nil
}
