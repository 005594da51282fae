package animation

import (
	"fmt"
	"strings"
)

// Schema describes the property layout of a clip type and how to create the
// generator behind it.
type Schema struct {
	Name   string
	Groups []SchemaGroup

	// NewGenerator is nil for animation clips.
	NewGenerator func() Generator
}

type SchemaGroup struct {
	Name       string
	Properties []SchemaProperty
}

type SchemaProperty struct {
	Name string
	Type PropertyType
}

// AnimationSchema is the schema of every animation clip. Animation clips have
// no properties of their own.
var AnimationSchema = &Schema{Name: "Animation"}

// PropertyPath addresses one property of a schema.
type PropertyPath struct {
	Group    int
	Property int
	Type     PropertyType
}

// Instantiate creates a generator clip with every property at its type's
// default value.
func (s *Schema) Instantiate(id, offsetFrames, durationFrames uint32) *Clip {
	var source ClipSource
	if s.NewGenerator != nil {
		source = GeneratorSource(s.NewGenerator())
	}

	return &Clip{
		ID:             id,
		Name:           s.Name,
		Schema:         s,
		Source:         source,
		OffsetFrames:   offsetFrames,
		DurationFrames: durationFrames,
		PropertyGroups: s.DefaultGroups(),
	}
}

// DefaultGroups returns fresh property groups matching the schema shape.
func (s *Schema) DefaultGroups() []PropertyGroup {
	groups := make([]PropertyGroup, len(s.Groups))
	for g, group := range s.Groups {
		defaults := make([]PropertyDefault, len(group.Properties))
		for p, prop := range group.Properties {
			defaults[p] = PropertyDefault{Value: prop.Type.DefaultValue()}
		}
		groups[g] = PropertyGroup{Defaults: defaults}
	}
	return groups
}

// Resolve maps "group.property" to a path. Properties of an unnamed group are
// addressed by property name alone.
func (s *Schema) Resolve(name string) (PropertyPath, error) {
	groupName, propName := "", name
	if i := strings.LastIndex(name, "."); i >= 0 {
		groupName, propName = name[:i], name[i+1:]
	}

	for g, group := range s.Groups {
		if group.Name != groupName {
			continue
		}
		for p, prop := range group.Properties {
			if prop.Name == propName {
				return PropertyPath{Group: g, Property: p, Type: prop.Type}, nil
			}
		}
	}
	return PropertyPath{}, fmt.Errorf("schema %q has no property %q", s.Name, name)
}

// PathName is the inverse of Resolve.
func (s *Schema) PathName(group, property int) string {
	if group < 0 || group >= len(s.Groups) {
		return fmt.Sprintf("%d.%d", group, property)
	}
	g := s.Groups[group]
	if property < 0 || property >= len(g.Properties) {
		return fmt.Sprintf("%d.%d", group, property)
	}
	if g.Name == "" {
		return g.Properties[property].Name
	}
	return g.Name + "." + g.Properties[property].Name
}
