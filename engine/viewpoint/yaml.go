package viewpoint

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// storeDoc is the serialized form of a Store. Only the direction is written for the
// orientation; azimuth and elevation are included for readers and ignored on load.
type storeDoc struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Location  [3]float64 `yaml:"location,flow"`
	Direction [3]float64 `yaml:"direction,flow"`
	Azimuth   float64    `yaml:"azimuth,omitempty"`
	Elevation float64    `yaml:"elevation,omitempty"`
	MagIndex  int        `yaml:"magIndex"`
	Mode      Mode       `yaml:"mode"`
	Near      float64    `yaml:"near"`
	Far       float64    `yaml:"far"`
}

type listDoc struct {
	Viewpoints []*Store `yaml:"viewpoints"`
}

// MarshalYAML implements yaml.Marshaler.
func (s *Store) MarshalYAML() (any, error) {
	return storeDoc{
		ID:        s.ID.String(),
		Name:      s.Name,
		Location:  s.Location,
		Direction: s.Direction(),
		Azimuth:   s.azimuth,
		Elevation: s.elevation,
		MagIndex:  s.MagIndex,
		Mode:      s.Mode,
		Near:      s.Near,
		Far:       s.Far,
	}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. A missing or malformed ID is replaced by a fresh one.
func (s *Store) UnmarshalYAML(node *yaml.Node) error {
	var doc storeDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		id = uuid.New()
	}
	*s = Store{
		ID:       id,
		Name:     doc.Name,
		Location: mgl64.Vec3(doc.Location),
		MagIndex: ClampMagIndex(doc.MagIndex),
		Mode:     doc.Mode,
		Near:     doc.Near,
		Far:      doc.Far,
	}
	s.SetDirection(mgl64.Vec3(doc.Direction))
	return nil
}

// MarshalList encodes a viewpoint list as a YAML document.
//
// Parameters:
//   - l: the list to encode
//
// Returns:
//   - []byte: the YAML document
//   - error: an error if encoding fails
func MarshalList(l *List) ([]byte, error) {
	doc := listDoc{}
	if l != nil {
		doc.Viewpoints = l.Items
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode viewpoint list: %w", err)
	}
	return out, nil
}

// UnmarshalList decodes a YAML document produced by MarshalList.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - *List: the decoded list
//   - error: an error if the document is malformed or has an empty entry
func UnmarshalList(data []byte) (*List, error) {
	var doc listDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode viewpoint list: %w", err)
	}
	for i, s := range doc.Viewpoints {
		if s == nil {
			return nil, fmt.Errorf("failed to decode viewpoint list: entry %d is empty", i)
		}
	}
	return NewList(doc.Viewpoints...), nil
}
