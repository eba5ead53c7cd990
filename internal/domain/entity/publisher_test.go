package entity

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPublisher() Publisher {
	return Publisher{
		Title:       "OPD Reports",
		Endpoint:    "http://orlando-citygram-api.azurewebsites.net/?service=police",
		Active:      true,
		Visible:     true,
		City:        "Orlando",
		State:       "FL",
		Icon:        "police-incidents.png",
		Description: "Orlando police incident reports.",
		Tags:        []string{"orlando", "orl", "crime", "police"},
	}
}

func TestPublisher_Validate_OK(t *testing.T) {
	p := validPublisher()
	assert.NoError(t, p.Validate())
}

func TestPublisher_Validate_OptionalFields(t *testing.T) {
	p := validPublisher()
	p.Icon = ""
	p.Description = ""
	p.Active = false
	p.Visible = false
	assert.NoError(t, p.Validate())
}

func TestPublisher_Validate_Tags(t *testing.T) {
	t.Run("empty tags", func(t *testing.T) {
		p := validPublisher()
		p.Tags = []string{}
		assert.NoError(t, p.Validate())
	})

	t.Run("nil tags", func(t *testing.T) {
		p := validPublisher()
		p.Tags = nil
		assert.NoError(t, p.Validate())
	})

	t.Run("duplicate tags", func(t *testing.T) {
		p := validPublisher()
		p.Tags = []string{"crime", "crime", "police"}
		assert.NoError(t, p.Validate())
	})

	t.Run("blank tag", func(t *testing.T) {
		p := validPublisher()
		p.Tags = []string{"crime", " "}
		err := p.Validate()
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "tags[1]", ve.Field)
	})
}

func TestPublisher_Validate_Errors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(p *Publisher)
		wantField string
	}{
		{name: "missing title", mutate: func(p *Publisher) { p.Title = "" }, wantField: "title"},
		{name: "blank title", mutate: func(p *Publisher) { p.Title = "  " }, wantField: "title"},
		{name: "missing endpoint", mutate: func(p *Publisher) { p.Endpoint = "" }, wantField: "endpoint"},
		{
			name:      "endpoint without scheme",
			mutate:    func(p *Publisher) { p.Endpoint = "orlando-citygram-api.azurewebsites.net" },
			wantField: "endpoint",
		},
		{name: "missing city", mutate: func(p *Publisher) { p.City = "" }, wantField: "city"},
		{name: "missing state", mutate: func(p *Publisher) { p.State = "" }, wantField: "state"},
		{name: "state too long", mutate: func(p *Publisher) { p.State = "FLA" }, wantField: "state"},
		{name: "state with digits", mutate: func(p *Publisher) { p.State = "F1" }, wantField: "state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPublisher()
			tt.mutate(&p)

			err := p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidationFailed)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestPublisher_Validate_MissingStateMessage(t *testing.T) {
	p := validPublisher()
	p.State = ""

	err := p.Validate()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "is required", ve.Message)
}

func TestNewFeatureCollection_NilFeatures(t *testing.T) {
	fc := NewFeatureCollection(nil)
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.NotNil(t, fc.Features)
	assert.Empty(t, fc.Features)
}

func TestNewValidator_RegistersNotBlank(t *testing.T) {
	var v *validator.Validate
	require.NotPanics(t, func() { v = newValidator() })

	assert.Error(t, v.Var("   ", "notblank"))
	assert.NoError(t, v.Var("Orlando", "notblank"))
}
