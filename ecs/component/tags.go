package component

type DodgerTag struct{}

var DodgerTagComponent = NewComponent[DodgerTag]()

type ThrowerTag struct{}

var ThrowerTagComponent = NewComponent[ThrowerTag]()

// PlayerTag marks the entity driven by keyboard or gamepad.
type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type Team struct {
	ID int
}

var TeamComponent = NewComponent[Team]()

// Name is a display label used by the HUD and logs.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()

// Prefab records the prefab an entity was built from, for hot reload.
type Prefab struct {
	Path string
}

var PrefabComponent = NewComponent[Prefab]()
