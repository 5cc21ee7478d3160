// Package inspector shows the state of a single trace picked with the mouse.
package inspector

import (
	"fmt"
	"image/color"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Widget selects how a field is drawn.
type Widget int

const (
	WidgetLabel Widget = iota
	WidgetBar
	WidgetAngle
	WidgetColor
	WidgetSkip
)

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"angle": WidgetAngle,
	"color": WidgetColor,
	"skip":  WidgetSkip,
}

// TagOptions are the settings after the widget name in an inspect tag.
type TagOptions struct {
	Format string  // fmt verb for labels
	Max    float64 // full-scale value for bars
}

// Field is one displayable value read from a component.
type Field struct {
	Name   string
	Value  any
	Widget Widget
	TagOptions
}

// Text formats the value for a label.
func (f Field) Text() string {
	if f.Format != "" {
		return fmt.Sprintf(f.Format, f.Value)
	}
	switch v := f.Value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', 2, 32)
	case color.RGBA:
		return fmt.Sprintf("#%02x%02x%02x", v.R, v.G, v.B)
	default:
		return fmt.Sprint(v)
	}
}

// Float returns the value as a float64 when it is numeric.
func (f Field) Float() (float64, bool) {
	v := reflect.ValueOf(f.Value)
	switch {
	case v.CanFloat():
		return v.Float(), true
	case v.CanInt():
		return float64(v.Int()), true
	case v.CanUint():
		return float64(v.Uint()), true
	}
	return 0, false
}

// ParseTag reads an inspect tag of the form "widget[,key:value...]".
// Known keys are fmt and max. An empty or unknown widget name picks the
// widget from the field type.
func ParseTag(tag string) (w Widget, opts TagOptions, ok bool) {
	name, rest, _ := strings.Cut(tag, ",")
	w, ok = widgetNames[strings.TrimSpace(name)]
	opts.Max = 1
	for _, kv := range strings.Split(rest, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(kv), ":")
		if !found {
			continue
		}
		switch k {
		case "fmt":
			opts.Format = v
		case "max":
			if m, err := strconv.ParseFloat(v, 64); err == nil && m > 0 {
				opts.Max = m
			}
		}
	}
	return w, opts, ok
}

// fieldPlan is the per-type result of reading struct tags.
type fieldPlan struct {
	index  int
	name   string
	widget Widget
	opts   TagOptions
}

// plans caches []fieldPlan by reflect.Type.
var plans sync.Map

var rgbaType = reflect.TypeOf(color.RGBA{})

func planFor(t reflect.Type) []fieldPlan {
	if p, ok := plans.Load(t); ok {
		return p.([]fieldPlan)
	}
	var out []fieldPlan
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		w, opts, ok := ParseTag(sf.Tag.Get("inspect"))
		if !ok {
			w = WidgetLabel
			if sf.Type == rgbaType {
				w = WidgetColor
			}
		}
		if w == WidgetSkip {
			continue
		}
		out = append(out, fieldPlan{index: i, name: sf.Name, widget: w, opts: opts})
	}
	plans.Store(t, out)
	return out
}

// ExtractFields lists the displayable fields of a struct or struct pointer.
func ExtractFields(component any) []Field {
	v := reflect.Indirect(reflect.ValueOf(component))
	if v.Kind() != reflect.Struct {
		return nil
	}
	plan := planFor(v.Type())
	fields := make([]Field, len(plan))
	for i, p := range plan {
		fields[i] = Field{
			Name:       p.name,
			Value:      v.Field(p.index).Interface(),
			Widget:     p.widget,
			TagOptions: p.opts,
		}
	}
	return fields
}
