package ui

import (
	"strconv"

	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/RailCraft/internal/model"
)

// paramForm is the editable parameter form of one variant. It is the
// model.FieldSource the design is read from, so whatever the user typed is
// validated by the field table, never here.
type paramForm struct {
	fields  []model.FieldSpec
	entries map[string]*widget.Entry
	color   *widget.Entry
	form    *widget.Form
}

// newParamForm builds one entry per field, prefilled with the defaults.
// changed is called after every edit.
func newParamForm(fields []model.FieldSpec, color string, changed func()) *paramForm {
	f := &paramForm{
		fields:  fields,
		entries: make(map[string]*widget.Entry, len(fields)),
		form:    widget.NewForm(),
	}
	onChanged := func(string) {
		if changed != nil {
			changed()
		}
	}

	for _, spec := range fields {
		e := widget.NewEntry()
		e.SetText(formatDefault(spec.Default))
		e.SetPlaceHolder(formatDefault(spec.Default))
		e.OnChanged = onChanged
		f.entries[spec.Name] = e
		f.form.Append(spec.Label, e)
	}

	f.color = widget.NewEntry()
	f.color.SetText(color)
	f.color.SetPlaceHolder("#rrggbb")
	f.color.OnChanged = onChanged
	f.form.Append("Color", f.color)
	return f
}

// Field implements model.FieldSource.
func (f *paramForm) Field(name string) (string, bool) {
	if name == model.FieldColor {
		return f.color.Text, true
	}
	e, ok := f.entries[name]
	if !ok {
		return "", false
	}
	return e.Text, true
}

// Snapshot copies the current field values.
func (f *paramForm) Snapshot() model.MapSource {
	src := make(model.MapSource, len(f.entries)+1)
	for name, e := range f.entries {
		src[name] = e.Text
	}
	src[model.FieldColor] = f.color.Text
	return src
}

// Reset restores every field default. The color is left as is.
func (f *paramForm) Reset() {
	for _, spec := range f.fields {
		f.entries[spec.Name].SetText(formatDefault(spec.Default))
	}
}

func formatDefault(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
