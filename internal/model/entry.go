package model

import (
	"time"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// Entry is one journal entry. CategoryName, Maker, and Origin are read-side
// columns denormalized through the entries view; they are present only on
// records loaded from it and are never written back.
type Entry struct {
	Model
}

func (e *Entry) UUID() string          { return e.getString(types.ColUUID) }
func (e *Entry) Title() string         { return e.getString(types.ColTitle) }
func (e *Entry) CategoryID() int64     { return e.getInt64(types.ColCategoryID) }
func (e *Entry) CategoryUUID() string  { return e.getString(types.ColCategoryUUID) }
func (e *Entry) CategoryName() string  { return e.getString(types.ColCategoryName) }
func (e *Entry) MakerID() int64        { return e.getInt64(types.ColMakerID) }
func (e *Entry) Maker() string         { return e.getString(types.ColMaker) }
func (e *Entry) Origin() string        { return e.getString(types.ColOrigin) }
func (e *Entry) Price() float64        { return e.getFloat64(types.ColPrice) }
func (e *Entry) Location() string      { return e.getString(types.ColLocation) }
func (e *Entry) Date() time.Time       { return e.getTime(types.ColDate) }
func (e *Entry) Rating() int64         { return e.getInt64(types.ColRating) }
func (e *Entry) Notes() string         { return e.getString(types.ColNotes) }
func (e *Entry) Updated() time.Time    { return e.getTime(types.ColUpdated) }
func (e *Entry) IsPublished() bool     { return e.getBool(types.ColIsPublished) }
func (e *Entry) IsSynced() bool        { return e.getBool(types.ColIsSynced) }

func (e *Entry) SetTitle(title string)    { e.set(types.ColTitle, title) }
func (e *Entry) SetCategoryID(id int64)   { e.set(types.ColCategoryID, id) }
func (e *Entry) SetPrice(price float64)   { e.set(types.ColPrice, price) }
func (e *Entry) SetLocation(loc string)   { e.set(types.ColLocation, loc) }
func (e *Entry) SetDate(date time.Time)   { e.setTime(types.ColDate, date) }
func (e *Entry) SetRating(rating int64)   { e.set(types.ColRating, rating) }
func (e *Entry) SetNotes(notes string)    { e.set(types.ColNotes, notes) }
func (e *Entry) SetIsPublished(v bool)    { e.setBool(types.ColIsPublished, v) }
