package graphapi

import (
	"encoding/json"
	"errors"
)

// Link is one directed edge in the array encoding. On the wire it is exactly
// the 6-tuple [id, origin_id, origin_slot, target_id, target_slot, type].
type Link struct {
	ID         int
	OriginID   int
	OriginSlot int
	TargetID   int
	TargetSlot int
	Type       string
}

func (l *Link) UnmarshalJSON(b []byte) error {
	var tmp []interface{}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	if len(tmp) != 6 {
		return errors.New("wrong number of fields in JSON array")
	}

	id, ok0 := tmp[0].(float64)
	origin, ok1 := tmp[1].(float64)
	originSlot, ok2 := tmp[2].(float64)
	target, ok3 := tmp[3].(float64)
	targetSlot, ok4 := tmp[4].(float64)
	if !ok0 || !ok1 || !ok2 || !ok3 || !ok4 {
		return errors.New("link tuple contains non-numeric id fields")
	}

	l.ID = int(id)
	l.OriginID = int(origin)
	l.OriginSlot = int(originSlot)
	l.TargetID = int(target)
	l.TargetSlot = int(targetSlot)
	l.Type, _ = tmp[5].(string)

	return nil
}

func (l *Link) MarshalJSON() ([]byte, error) {
	tmp := []interface{}{
		l.ID,
		l.OriginID,
		l.OriginSlot,
		l.TargetID,
		l.TargetSlot,
		l.Type,
	}
	return json.Marshal(tmp)
}
