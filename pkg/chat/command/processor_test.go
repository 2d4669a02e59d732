package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/changzhiho/mini-chatgpt/pkg/weather"
)

type fakeWeather struct {
	called     bool
	gotCity    string
	conditions weather.Conditions
	err        error
}

func (f *fakeWeather) CurrentWeather(ctx context.Context, city string) (weather.Conditions, error) {
	f.called = true
	f.gotCity = city
	if f.err != nil {
		return weather.Conditions{}, f.err
	}
	return f.conditions, nil
}

func TestParseDefinitions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Definition
	}{
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
		{
			name: "single definition",
			raw:  "/translate : Translate the following text to English",
			want: []Definition{
				{Token: "/translate", Description: "Translate the following text to English"},
			},
		},
		{
			name: "malformed lines skipped",
			raw:  "not a command\n/ok : valid one\n/missingdesc :\n: /nodash",
			want: []Definition{
				{Token: "/ok", Description: "valid one"},
			},
		},
		{
			name: "duplicate token keeps first position with later description",
			raw:  "/a : first\n/b : middle\n/a : second",
			want: []Definition{
				{Token: "/a", Description: "second"},
				{Token: "/b", Description: "middle"},
			},
		},
		{
			name: "whitespace around separator tolerated",
			raw:  "/spaced:no spaces\n/wide   :   lots of spaces",
			want: []Definition{
				{Token: "/spaced", Description: "no spaces"},
				{Token: "/wide", Description: "lots of spaces"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDefinitions(tt.raw))
		})
	}
}

func TestProcess(t *testing.T) {
	commands := "/translate : Translate the following text to English\n/fix : Fix the grammar in"

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain message passes through",
			raw:  "Hello there",
			want: "Hello there",
		},
		{
			name: "message containing a slash mid-text passes through",
			raw:  "what does /translate do?",
			want: "what does /translate do?",
		},
		{
			name: "unknown command passes through",
			raw:  "/unknown something",
			want: "/unknown something",
		},
		{
			name: "command without args expands to description",
			raw:  "/translate",
			want: "Translate the following text to English",
		},
		{
			name: "command with args appends them",
			raw:  "/fix je suis aller au marche",
			want: "Fix the grammar in je suis aller au marche",
		},
		{
			name: "matching is by raw prefix, no space required",
			raw:  "/translatefoo",
			want: "Translate the following text to English foo",
		},
		{
			name: "expansion is not reapplied to expanded text",
			raw:  "Translate the following text to English bonjour",
			want: "Translate the following text to English bonjour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProcessor(&fakeWeather{})
			assert.Equal(t, tt.want, p.Process(context.Background(), tt.raw, commands))
		})
	}
}

func TestProcessFirstMatchingDefinitionWins(t *testing.T) {
	// Prefix matching means one message can match several tokens;
	// definition order decides.
	commands := "/tr : short one\n/translate : long one"
	p := NewProcessor(&fakeWeather{})

	got := p.Process(context.Background(), "/translate hi", commands)

	assert.Equal(t, "short one anslate hi", got)
}

func TestProcessWeather(t *testing.T) {
	t.Run("missing city returns usage without calling the service", func(t *testing.T) {
		fake := &fakeWeather{}
		p := NewProcessor(fake)

		got := p.Process(context.Background(), "/meteo", "")

		assert.Equal(t, weatherUsage, got)
		assert.False(t, fake.called)
	})

	t.Run("city glued to the token still triggers the lookup", func(t *testing.T) {
		fake := &fakeWeather{conditions: weather.Conditions{
			City:        "Paris",
			Temperature: 18.5,
			Description: "light rain",
			Humidity:    82,
		}}
		p := NewProcessor(fake)

		got := p.Process(context.Background(), "/meteoParis", "")

		assert.True(t, fake.called)
		assert.Equal(t, "Paris", fake.gotCity)
		assert.Equal(t, "Current weather in Paris: 18.5°C, light rain, humidity 82%. Present this information in a natural way.", got)
	})

	t.Run("successful lookup formats a summary", func(t *testing.T) {
		fake := &fakeWeather{conditions: weather.Conditions{
			City:        "Paris",
			Temperature: 18.5,
			Description: "light rain",
			Humidity:    82,
		}}
		p := NewProcessor(fake)

		got := p.Process(context.Background(), "/meteo Paris", "")

		assert.True(t, fake.called)
		assert.Equal(t, "Current weather in Paris: 18.5°C, light rain, humidity 82%. Present this information in a natural way.", got)
	})

	t.Run("lookup failure becomes an inline error message", func(t *testing.T) {
		fake := &fakeWeather{err: errors.New("city not found")}
		p := NewProcessor(fake)

		got := p.Process(context.Background(), "/meteo Nowhere", "")

		assert.Equal(t, "Weather error: city not found", got)
	})
}
