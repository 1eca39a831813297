// Package automation replays scripted settings changes against a running
// engine, tick by tick.
package automation

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/glyphrain/internal/config"
)

var ErrInvalidScenario = errors.New("automation: invalid scenario")

// Scenario defines a scripted sequence of control changes.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep changes the fields it sets before tick At is processed.
type ScenarioStep struct {
	At         int     `yaml:"at"`
	Density    *int    `yaml:"density,omitempty"`
	ColorTheme *string `yaml:"color_theme,omitempty"`
	FontSize   *int    `yaml:"font_size,omitempty"`
	DataMode   *bool   `yaml:"data_mode,omitempty"`
	FaucetOn   *bool   `yaml:"faucet_on,omitempty"`
}

// LoadScenario loads a scenario from a YAML file. Steps are ordered by tick.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sort.SliceStable(scenario.Steps, func(i, j int) bool { return scenario.Steps[i].At < scenario.Steps[j].At })
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	for i, step := range s.Steps {
		if step.At < 0 {
			return fmt.Errorf("%w: step %d at negative tick %d", ErrInvalidScenario, i+1, step.At)
		}
		if step.Density != nil && *step.Density < 0 {
			return fmt.Errorf("%w: step %d: %w", ErrInvalidScenario, i+1, config.ErrInvalidDensity)
		}
		if step.FontSize != nil && *step.FontSize <= 0 {
			return fmt.Errorf("%w: step %d: %w", ErrInvalidScenario, i+1, config.ErrInvalidFontSize)
		}
	}
	return nil
}

// Insert adds a step after any steps already scheduled for the same tick.
func (s *Scenario) Insert(step ScenarioStep) {
	i := sort.Search(len(s.Steps), func(i int) bool { return s.Steps[i].At > step.At })
	s.Steps = append(s.Steps, ScenarioStep{})
	copy(s.Steps[i+1:], s.Steps[i:])
	s.Steps[i] = step
}

// Length is the tick of the last step.
func (s *Scenario) Length() int {
	if len(s.Steps) == 0 {
		return 0
	}
	return s.Steps[len(s.Steps)-1].At
}

func (st ScenarioStep) apply(s config.Settings) config.Settings {
	if st.Density != nil {
		s.Density = *st.Density
	}
	if st.ColorTheme != nil {
		s.ColorTheme = *st.ColorTheme
	}
	if st.FontSize != nil {
		s.FontSize = *st.FontSize
	}
	if st.DataMode != nil {
		s.DataMode = *st.DataMode
	}
	if st.FaucetOn != nil {
		s.FaucetOn = *st.FaucetOn
	}
	return s
}

// Player walks a scenario forward. Steps must be ordered by tick.
type Player struct {
	steps    []ScenarioStep
	next     int
	settings config.Settings
}

func NewPlayer(sc *Scenario, base config.Settings) *Player {
	return &Player{steps: sc.Steps, settings: base}
}

// Due folds every pending step with At <= tick into the current settings.
// It reports false when no step was due.
func (p *Player) Due(tick int) (config.Settings, bool) {
	changed := false
	for p.next < len(p.steps) && p.steps[p.next].At <= tick {
		p.settings = p.steps[p.next].apply(p.settings)
		p.next++
		changed = true
	}
	return p.settings, changed
}

func (p *Player) Done() bool { return p.next >= len(p.steps) }

func (p *Player) Settings() config.Settings { return p.settings }
