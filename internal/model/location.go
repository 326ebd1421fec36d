package model

import "github.com/mesh-intelligence/cellar/pkg/types"

// Location is a user-named saved coordinate pair.
type Location struct {
	Model
}

func (l *Location) UUID() string       { return l.getString(types.ColUUID) }
func (l *Location) Latitude() float64  { return l.getFloat64(types.ColLatitude) }
func (l *Location) Longitude() float64 { return l.getFloat64(types.ColLongitude) }
func (l *Location) Name() string       { return l.getString(types.ColName) }

func (l *Location) SetLatitude(v float64)  { l.set(types.ColLatitude, v) }
func (l *Location) SetLongitude(v float64) { l.set(types.ColLongitude, v) }
func (l *Location) SetName(name string)    { l.set(types.ColName, name) }
