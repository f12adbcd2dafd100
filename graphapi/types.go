package graphapi

import (
	"encoding/json"
)

type Pos struct {
	X float64
	Y float64
}

func (p *Pos) UnmarshalJSON(b []byte) error {
	var tmp []interface{}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}

	for i, v := range tmp {
		if value, ok := v.(float64); ok {
			if i == 0 {
				p.X = value
			} else {
				p.Y = value
			}
		}
	}

	return nil
}

func (p *Pos) MarshalJSON() ([]byte, error) {
	tmp := []float64{p.X, p.Y}
	return json.Marshal(tmp)
}

type Size struct {
	Width  float64
	Height float64
}

func (s *Size) UnmarshalJSON(b []byte) error {
	// First try to unmarshal as array
	var tmpArr []interface{}
	if err := json.Unmarshal(b, &tmpArr); err == nil && len(tmpArr) == 2 {
		for i, v := range tmpArr {
			if value, ok := v.(float64); ok {
				if i == 0 {
					s.Width = value
				} else {
					s.Height = value
				}
			}
		}
		return nil
	}

	// If not array, try to unmarshal as map
	var tmpMap map[string]interface{}
	if err := json.Unmarshal(b, &tmpMap); err != nil {
		return err
	}

	for k, v := range tmpMap {
		if value, ok := v.(float64); ok {
			if k == "0" {
				s.Width = value
			} else {
				s.Height = value
			}
		}
	}

	return nil
}

// it seems the json code can have either an array of values, or a dictionary of values
// when marshaling, we'll always output as an array.
func (s *Size) MarshalJSON() ([]byte, error) {
	tmp := []float64{s.Width, s.Height}
	return json.Marshal(tmp)
}
