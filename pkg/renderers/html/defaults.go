package html

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formkit/pkg/fields"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// Built-in field templates. Each is an inline pongo2 source compiled once by
// the engine and shared across renders.
const (
	tplInput = `<div class="fk-field fk-field--{{ type }}{% if show_errors %} fk-field--invalid{% endif %}">
  <label class="fk-label" for="{{ id }}">{{ label }}{% if required %}<span class="fk-required">*</span>{% endif %}</label>
  <input class="fk-input" type="{{ input_type }}" id="{{ id }}" name="{{ id }}" value="{{ value }}"
    {% if placeholder %}placeholder="{{ placeholder }}"{% endif %}
    {% if has_min %}min="{{ min }}"{% endif %}{% if has_max %}max="{{ max }}"{% endif %}{% if has_step %}step="{{ step }}"{% endif %}
    {% if disabled %}disabled{% endif %}{% if required %}required{% endif %}>
  {% if description %}<p class="fk-help">{{ description|safe }}</p>{% endif %}
  {% if show_errors %}<ul class="fk-errors">{% for err in errors %}<li>{{ err }}</li>{% endfor %}</ul>{% endif %}
</div>`

	tplTextarea = `<div class="fk-field fk-field--textarea{% if show_errors %} fk-field--invalid{% endif %}">
  <label class="fk-label" for="{{ id }}">{{ label }}{% if required %}<span class="fk-required">*</span>{% endif %}</label>
  <textarea class="fk-textarea" id="{{ id }}" name="{{ id }}"
    {% if placeholder %}placeholder="{{ placeholder }}"{% endif %}
    {% if disabled %}disabled{% endif %}{% if required %}required{% endif %}>{{ value }}</textarea>
  {% if description %}<p class="fk-help">{{ description|safe }}</p>{% endif %}
  {% if show_errors %}<ul class="fk-errors">{% for err in errors %}<li>{{ err }}</li>{% endfor %}</ul>{% endif %}
</div>`

	tplSelect = `<div class="fk-field fk-field--{{ type }}{% if show_errors %} fk-field--invalid{% endif %}">
  <label class="fk-label" for="{{ id }}">{{ label }}{% if required %}<span class="fk-required">*</span>{% endif %}</label>
  <select class="fk-select" id="{{ id }}" name="{{ id }}"
    {% if multiple %}multiple{% endif %}{% if disabled %}disabled{% endif %}{% if required %}required{% endif %}>
    {% for opt in options %}<option value="{{ opt.value }}"{% if opt.selected %} selected{% endif %}>{{ opt.label }}</option>{% endfor %}
  </select>
  {% if description %}<p class="fk-help">{{ description|safe }}</p>{% endif %}
  {% if show_errors %}<ul class="fk-errors">{% for err in errors %}<li>{{ err }}</li>{% endfor %}</ul>{% endif %}
</div>`

	tplCheckbox = `<div class="fk-field fk-field--{{ type }}{% if show_errors %} fk-field--invalid{% endif %}">
  <label class="fk-check">
    <input class="fk-checkbox" type="checkbox" id="{{ id }}" name="{{ id }}"
      {% if checked %}checked{% endif %}{% if disabled %}disabled{% endif %}{% if required %}required{% endif %}>
    <span>{{ label }}{% if required %}<span class="fk-required">*</span>{% endif %}</span>
  </label>
  {% if description %}<p class="fk-help">{{ description|safe }}</p>{% endif %}
  {% if show_errors %}<ul class="fk-errors">{% for err in errors %}<li>{{ err }}</li>{% endfor %}</ul>{% endif %}
</div>`

	tplRadio = `<fieldset class="fk-field fk-field--radio{% if show_errors %} fk-field--invalid{% endif %}"{% if disabled %} disabled{% endif %}>
  <legend class="fk-label">{{ label }}{% if required %}<span class="fk-required">*</span>{% endif %}</legend>
  {% for opt in options %}<label class="fk-check">
    <input type="radio" name="{{ id }}" value="{{ opt.value }}"{% if opt.selected %} checked{% endif %}>
    <span>{{ opt.label }}</span>
  </label>{% endfor %}
  {% if description %}<p class="fk-help">{{ description|safe }}</p>{% endif %}
  {% if show_errors %}<ul class="fk-errors">{% for err in errors %}<li>{{ err }}</li>{% endfor %}</ul>{% endif %}
</fieldset>`

	tplSlider = `<div class="fk-field fk-field--slider{% if show_errors %} fk-field--invalid{% endif %}">
  <label class="fk-label" for="{{ id }}">{{ label }}{% if required %}<span class="fk-required">*</span>{% endif %}</label>
  <input class="fk-slider" type="range" id="{{ id }}" name="{{ id }}" value="{{ value }}"
    min="{{ min }}" max="{{ max }}"{% if has_step %} step="{{ step }}"{% endif %}
    {% if disabled %}disabled{% endif %}>
  <output class="fk-slider-value" for="{{ id }}">{{ value }}</output>
  {% if description %}<p class="fk-help">{{ description|safe }}</p>{% endif %}
  {% if show_errors %}<ul class="fk-errors">{% for err in errors %}<li>{{ err }}</li>{% endfor %}</ul>{% endif %}
</div>`

	tplRating = `<div class="fk-field fk-field--rating{% if show_errors %} fk-field--invalid{% endif %}">
  <span class="fk-label">{{ label }}{% if required %}<span class="fk-required">*</span>{% endif %}</span>
  <div class="fk-rating" role="radiogroup" aria-label="{{ label }}">
    {% for star in stars %}<label class="fk-star">
      <input type="radio" name="{{ id }}" value="{{ star }}"{% if star == value %} checked{% endif %}{% if disabled %} disabled{% endif %}>
      <span aria-hidden="true">&#9733;</span>
    </label>{% endfor %}
  </div>
  {% if description %}<p class="fk-help">{{ description|safe }}</p>{% endif %}
  {% if show_errors %}<ul class="fk-errors">{% for err in errors %}<li>{{ err }}</li>{% endfor %}</ul>{% endif %}
</div>`
)

// inputTypeFor maps schema field types onto HTML input type attributes.
func inputTypeFor(t schema.FieldType) string {
	switch t {
	case schema.TypePassword:
		return "password"
	case schema.TypeEmail:
		return "email"
	case schema.TypeNumber:
		return "number"
	case schema.TypeDate:
		return "date"
	case schema.TypeTime:
		return "time"
	case schema.TypeDateTime:
		return "datetime-local"
	case schema.TypeFile:
		return "file"
	default:
		return "text"
	}
}

// RegisterDefaults installs HTML renderers for every built-in field type on
// the registry. Applications can re-register any type afterwards to override
// the markup; the registry keeps the last registration.
func RegisterDefaults(reg *fields.Registry, engine *Engine) error {
	if reg == nil || engine == nil {
		return fmt.Errorf("html: registry and engine are required")
	}

	inputTypes := []schema.FieldType{
		schema.TypeText, schema.TypePassword, schema.TypeEmail,
		schema.TypeNumber, schema.TypeDate, schema.TypeTime,
		schema.TypeDateTime, schema.TypeFile,
	}
	for _, t := range inputTypes {
		reg.Register(t, inputRenderer(engine))
	}

	reg.Register(schema.TypeTextarea, templateRenderer(engine, tplTextarea, nil))
	reg.Register(schema.TypeSelect, selectRenderer(engine, false))
	reg.Register(schema.TypeMultiSelect, selectRenderer(engine, true))
	reg.Register(schema.TypeCheckbox, checkboxRenderer(engine))
	reg.Register(schema.TypeSwitch, checkboxRenderer(engine))
	reg.Register(schema.TypeRadio, radioRenderer(engine))
	reg.Register(schema.TypeSlider, sliderRenderer(engine))
	reg.Register(schema.TypeRating, ratingRenderer(engine))
	return nil
}

// templateRenderer renders a fixed inline template with the base field data,
// letting extend mutate the context for control-specific keys.
func templateRenderer(engine *Engine, source string, extend func(data map[string]any, props fields.FieldProps)) fields.Renderer {
	return fields.RendererFunc(func(_ context.Context, props fields.FieldProps) (fields.Node, error) {
		data := baseData(props)
		if extend != nil {
			extend(data, props)
		}
		markup, err := engine.RenderString(source, data)
		if err != nil {
			return fields.Node{}, err
		}
		return fields.Node{Markup: markup}, nil
	})
}

func inputRenderer(engine *Engine) fields.Renderer {
	return templateRenderer(engine, tplInput, func(data map[string]any, props fields.FieldProps) {
		data["input_type"] = inputTypeFor(props.Field.Type)
	})
}

func selectRenderer(engine *Engine, multiple bool) fields.Renderer {
	return templateRenderer(engine, tplSelect, func(data map[string]any, props fields.FieldProps) {
		data["multiple"] = multiple
		data["options"] = optionData(props.Field.Options, props.Value, multiple)
	})
}

func checkboxRenderer(engine *Engine) fields.Renderer {
	return templateRenderer(engine, tplCheckbox, func(data map[string]any, props fields.FieldProps) {
		checked, _ := props.Value.(bool)
		data["checked"] = checked
	})
}

func radioRenderer(engine *Engine) fields.Renderer {
	return templateRenderer(engine, tplRadio, func(data map[string]any, props fields.FieldProps) {
		data["options"] = optionData(props.Field.Options, props.Value, false)
	})
}

func sliderRenderer(engine *Engine) fields.Renderer {
	return templateRenderer(engine, tplSlider, nil)
}

func ratingRenderer(engine *Engine) fields.Renderer {
	return templateRenderer(engine, tplRating, func(data map[string]any, props fields.FieldProps) {
		max := 5
		if props.Field.Max != nil && *props.Field.Max > 0 {
			max = int(*props.Field.Max)
		}
		stars := make([]int, 0, max)
		for i := 1; i <= max; i++ {
			stars = append(stars, i)
		}
		data["stars"] = stars
	})
}

func baseData(props fields.FieldProps) map[string]any {
	field := props.Field
	data := map[string]any{
		"id":          field.ID,
		"type":        string(field.Type),
		"label":       field.Label,
		"placeholder": field.Placeholder,
		"description": sanitizeHelpText(field.Description),
		"required":    props.State.Required,
		"disabled":    props.Disabled,
		"value":       props.Value,
		"errors":      props.Errors,
		"show_errors": props.ShowErrors(),
		"has_min":     field.Min != nil,
		"has_max":     field.Max != nil,
		"has_step":    field.Step != nil,
		"min":         0.0,
		"max":         0.0,
		"step":        0.0,
	}
	if field.Min != nil {
		data["min"] = *field.Min
	}
	if field.Max != nil {
		data["max"] = *field.Max
	}
	if field.Step != nil {
		data["step"] = *field.Step
	}
	return data
}

// optionData flattens declared options with their selection state. Multi
// selects match against list membership, everything else against loose
// string equality.
func optionData(options []schema.Option, value any, multiple bool) []map[string]any {
	selected := map[string]bool{}
	if multiple {
		if list, ok := value.([]any); ok {
			for _, item := range list {
				selected[fmt.Sprint(item)] = true
			}
		}
	} else if value != nil {
		selected[fmt.Sprint(value)] = true
	}

	out := make([]map[string]any, 0, len(options))
	for _, opt := range options {
		out = append(out, map[string]any{
			"label":    opt.Label,
			"value":    opt.Value,
			"selected": selected[fmt.Sprint(opt.Value)],
		})
	}
	return out
}
