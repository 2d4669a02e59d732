package command

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/changzhiho/mini-chatgpt/pkg/weather"
)

const (
	weatherPrefix = "/meteo"
	weatherUsage  = "Please specify a city. Example: /meteo Paris"
)

// commandLine matches one custom-command definition: "/token : description".
var commandLine = regexp.MustCompile(`^(/\w+)\s*:\s*(.+)$`)

// WeatherLookup is the collaborator behind the built-in /meteo command.
type WeatherLookup interface {
	CurrentWeather(ctx context.Context, city string) (weather.Conditions, error)
}

// Definition is one parsed custom command.
type Definition struct {
	Token       string
	Description string
}

// Processor expands slash commands in user messages before they reach
// the model. The expansion is purely textual except for /meteo, which
// calls out to the weather service.
type Processor struct {
	weather WeatherLookup
}

func NewProcessor(w WeatherLookup) *Processor {
	return &Processor{weather: w}
}

// ParseDefinitions parses the user's free-text command block into an
// ordered list. Lines that do not match the definition shape are
// skipped. A token defined twice keeps its first position but takes the
// later description.
func ParseDefinitions(raw string) []Definition {
	var defs []Definition
	index := make(map[string]int)

	for _, line := range strings.Split(raw, "\n") {
		m := commandLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		token, description := m[1], m[2]
		if pos, seen := index[token]; seen {
			defs[pos].Description = description
			continue
		}
		index[token] = len(defs)
		defs = append(defs, Definition{Token: token, Description: description})
	}

	return defs
}

// Process expands the message when it starts with a known command
// token. Matching is by raw prefix, not word boundary, so "/meteoParis"
// triggers the weather command with city "Paris". Messages matching no
// command pass through untouched. The first matching definition wins,
// in definition order.
func (p *Processor) Process(ctx context.Context, raw, customCommands string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "/") {
		return raw
	}

	if strings.HasPrefix(trimmed, weatherPrefix) {
		return p.processWeather(ctx, strings.TrimSpace(trimmed[len(weatherPrefix):]))
	}

	for _, def := range ParseDefinitions(customCommands) {
		if strings.HasPrefix(trimmed, def.Token) {
			args := strings.TrimSpace(trimmed[len(def.Token):])
			if args == "" {
				return def.Description
			}
			return def.Description + " " + args
		}
	}

	return raw
}

func (p *Processor) processWeather(ctx context.Context, city string) string {
	if city == "" {
		return weatherUsage
	}

	conditions, err := p.weather.CurrentWeather(ctx, city)
	if err != nil {
		return "Weather error: " + err.Error()
	}

	return fmt.Sprintf(
		"Current weather in %s: %.1f°C, %s, humidity %d%%. Present this information in a natural way.",
		conditions.City,
		conditions.Temperature,
		conditions.Description,
		conditions.Humidity,
	)
}
