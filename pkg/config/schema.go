package config

import (
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// SchemaRegistry manages CUE schemas for validating configuration files.
type SchemaRegistry struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
	mu      sync.RWMutex
}

// NewSchemaRegistry creates a new schema registry with built-in schemas.
func NewSchemaRegistry() *SchemaRegistry {
	sr := &SchemaRegistry{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}

	// Built-in schemas are compile-time constants; compilation failure
	// here is a programming error.
	if err := sr.RegisterSchema("settings", builtinSettingsSchema, "#Settings"); err != nil {
		panic(err)
	}

	return sr
}

// RegisterSchema compiles a CUE schema and stores the definition found
// at defPath under the given name. Definitions are closed, so unknown
// fields in validated data are rejected.
func (sr *SchemaRegistry) RegisterSchema(name, schema, defPath string) error {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	val := sr.ctx.CompileString(schema)
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	def := val.LookupPath(cue.ParsePath(defPath))
	if !def.Exists() {
		return fmt.Errorf("schema %s has no definition at %s", name, defPath)
	}

	sr.schemas[name] = def
	return nil
}

// GetSchema retrieves a schema by name.
func (sr *SchemaRegistry) GetSchema(name string) (cue.Value, bool) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	val, ok := sr.schemas[name]
	return val, ok
}

// ValidateAgainstSchema validates data against a named schema.
func (sr *SchemaRegistry) ValidateAgainstSchema(name string, data interface{}) error {
	schema, ok := sr.GetSchema(name)
	if !ok {
		return fmt.Errorf("schema %s not found", name)
	}

	dataVal := sr.ctx.Encode(data)
	if err := dataVal.Err(); err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}

	unified := schema.Unify(dataVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// builtinSettingsSchema constrains the satellite.yml file layer. Every
// key is optional at the file level (the environment layer or omission
// may cover it); the resolver decides what is ultimately required.
const builtinSettingsSchema = `
// Settings schema for the satellite.yml configuration file
#Settings: {
	// ssh_host is the remote host name or address
	ssh_host?: string

	// ssh_port is the remote ssh port, digits-only when given as a string
	ssh_port?: string | int & >0

	// ssh_user is the remote login user
	ssh_user?: string

	// ssh_path is the absolute site root path on the remote
	ssh_path?: string

	// remote_tool_path is an optional remote WP-CLI location probed first
	remote_tool_path?: string

	// sync_activate_plugins lists plugins to converge toward active
	sync_activate_plugins?: string | [...string]

	// sync_deactivate_plugins lists plugins to converge toward inactive
	sync_deactivate_plugins?: string | [...string]

	// hooks_after_database lists commands run after a database import
	hooks_after_database?: string | [...string]
}
`
