package model

import "github.com/mesh-intelligence/cellar/pkg/types"

// Photo is one photo attached to an entry. Position 0 is the poster photo.
type Photo struct {
	Model
}

func (p *Photo) UUID() string    { return p.getString(types.ColUUID) }
func (p *Photo) EntryID() int64  { return p.getInt64(types.ColEntryID) }
func (p *Photo) Hash() string    { return p.getString(types.ColHash) }
func (p *Photo) Path() string    { return p.getString(types.ColPath) }
func (p *Photo) DriveID() string { return p.getString(types.ColDriveID) }
func (p *Photo) Position() int64 { return p.getInt64(types.ColPosition) }

func (p *Photo) SetEntryID(id int64)    { p.set(types.ColEntryID, id) }
func (p *Photo) SetHash(hash string)    { p.set(types.ColHash, hash) }
func (p *Photo) SetPath(path string)    { p.set(types.ColPath, path) }
func (p *Photo) SetDriveID(id string)   { p.set(types.ColDriveID, id) }
func (p *Photo) SetPosition(pos int64)  { p.set(types.ColPosition, pos) }
