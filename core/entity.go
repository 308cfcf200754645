package core

// Entity is a unique identifier for a scene entity
// Identifiers are assigned by the external scene/entity collaborator at
// attach time; this subsystem never mints them
type Entity uint64

// NoEntity is the zero value, meaning "no entity"
const NoEntity Entity = 0

// Valid reports whether the entity refers to a real scene entity
func (e Entity) Valid() bool {
	return e != NoEntity
}
