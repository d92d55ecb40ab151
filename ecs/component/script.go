package component

// Script drives an agent from a tengo script under prefabs/scripts.
type Script struct {
	Path string
	// Vars are exposed to the script as the read-only map `params`.
	Vars map[string]any
}

var ScriptComponent = NewComponent[Script]()
