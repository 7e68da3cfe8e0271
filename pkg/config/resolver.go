package config

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/satellite-sync/satellite/pkg/engine"
	"github.com/satellite-sync/satellite/pkg/runner"
)

// portPattern is the only accepted shape for a resolved ssh port.
var portPattern = regexp.MustCompile(`^[0-9]+$`)

// progressViewerTool is probed locally to decide whether the database
// pipeline gets a progress filter.
const progressViewerTool = "pv"

// Resolver builds validated engine.Settings from a layered Source.
// It implements engine.Resolver.
type Resolver struct {
	source    Source
	runner    runner.Runner
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewResolver creates a Resolver over the given source. The runner is
// used only for the local progress-viewer probe.
func NewResolver(source Source, run runner.Runner, logger zerolog.Logger) *Resolver {
	return &Resolver{
		source:    source,
		runner:    run,
		validator: validator.New(),
		logger:    logger.With().Str("component", "resolver").Logger(),
	}
}

// Resolve reads all layers, applies precedence, and validates the
// resulting settings. Any required setting that is missing or invalid
// makes the whole resolution fail with a missing-settings error.
func (r *Resolver) Resolve(ctx context.Context) (*engine.Settings, error) {
	settings := &engine.Settings{}
	var missing []string

	settings.SSHHost = r.required(KeySSHHost, &missing)
	settings.SSHUser = r.required(KeySSHUser, &missing)
	settings.SSHPath = r.required(KeySSHPath, &missing)
	settings.SSHPort = r.resolvePort(&missing)

	if len(missing) > 0 {
		return nil, engine.NewMissingSettingsError(missing).WithStep(engine.StepResolveSettings)
	}

	settings.ActivatePlugins = r.pluginList(KeyActivatePlugins)
	settings.DeactivatePlugins = r.pluginList(KeyDeactivatePlugins)
	settings.RemoteToolCandidate = r.optional(KeyRemoteToolPath)
	settings.AfterDatabaseHooks = r.optionalList(KeyAfterDatabase)

	_, settings.HasProgressViewer = r.runner.LookPath(progressViewerTool)

	if err := r.validator.Struct(settings); err != nil {
		return nil, engine.NewMissingSettingsError(invalidFields(err)).WithStep(engine.StepResolveSettings)
	}

	r.logger.Debug().
		Str("host", settings.SSHHost).
		Str("port", settings.SSHPort).
		Str("user", settings.SSHUser).
		Str("path", settings.SSHPath).
		Bool("progress_viewer", settings.HasProgressViewer).
		Msg("settings resolved")

	return settings, nil
}

// required resolves a setting that must exist in some layer. A key no
// layer defines is recorded as missing.
func (r *Resolver) required(key string, missing *[]string) string {
	v, err := r.source.Lookup(key)
	if err != nil {
		*missing = append(*missing, key)
		return ""
	}
	return v
}

// resolvePort resolves the ssh port. A value failing the digits-only
// check is discarded with a warning, which makes the port missing: the
// default applies only when no layer defines the key at all.
func (r *Resolver) resolvePort(missing *[]string) string {
	v, err := r.source.Lookup(KeySSHPort)
	if errors.Is(err, ErrKeyUndefined) {
		return engine.DefaultSSHPort
	}
	if err != nil {
		*missing = append(*missing, KeySSHPort)
		return ""
	}
	if !portPattern.MatchString(v) {
		r.logger.Warn().Str("value", v).Msg("discarding non-numeric ssh_port")
		*missing = append(*missing, KeySSHPort)
		return ""
	}
	return v
}

// pluginList resolves a plugin list setting. Nil means no layer defined
// the key; a defined value is tokenized even when that yields no tokens.
func (r *Resolver) pluginList(key string) []string {
	raw, err := r.source.Lookup(key)
	if err != nil {
		return nil
	}
	return SplitList(raw)
}

func (r *Resolver) optional(key string) string {
	v, err := r.source.Lookup(key)
	if err != nil {
		return ""
	}
	return v
}

func (r *Resolver) optionalList(key string) []string {
	items, err := r.source.LookupList(key)
	if err != nil {
		return nil
	}
	return items
}

// SplitList tokenizes a raw plugin list on runs of whitespace and
// commas, discarding empty tokens and preserving order.
func SplitList(raw string) []string {
	tokens := []string{}
	for _, tok := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	}) {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// invalidFields extracts the failing setting names from a validator error.
func invalidFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{fmt.Sprintf("validation: %v", err)}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return fields
}
