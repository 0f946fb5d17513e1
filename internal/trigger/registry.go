package trigger

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Registry indexes the configured projects and their triggers. Loaded once
// at process start, read-only afterwards.
type Registry struct {
	projects map[string]Project
	// index by (app_key, trigger_key); a trigger_key only resolves within
	// the project whose app_key matches.
	index map[indexKey]Resolved
}

type indexKey struct {
	appKey     string
	triggerKey string
}

// Load reads and validates the projects file.
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read projects file: %w", err)
	}
	return Parse(raw)
}

// Parse validates and indexes raw projects YAML.
func Parse(raw []byte) (*Registry, error) {
	var projects map[string]Project
	if err := yaml.Unmarshal(raw, &projects); err != nil {
		return nil, fmt.Errorf("failed to parse projects file: %w", err)
	}

	reg := &Registry{
		projects: projects,
		index:    make(map[indexKey]Resolved),
	}

	for name, project := range projects {
		if project.AppKey == "" {
			return nil, fmt.Errorf("project %q: app_key is required", name)
		}
		for title, cfg := range project.Triggers {
			if cfg.TriggerKey == "" {
				return nil, fmt.Errorf("project %q trigger %q: trigger_key is required", name, title)
			}
			if cfg.CallURL != nil && cfg.CallURL.URL == "" {
				return nil, fmt.Errorf("project %q trigger %q: call_url.url is required", name, title)
			}
			key := indexKey{appKey: project.AppKey, triggerKey: cfg.TriggerKey}
			if _, exists := reg.index[key]; exists {
				return nil, fmt.Errorf("project %q trigger %q: duplicate app_key/trigger_key pair", name, title)
			}
			reg.index[key] = Resolved{Project: name, Title: title, Config: cfg}
		}
	}

	return reg, nil
}

// Resolve looks up the trigger for an (app_key, trigger_key) pair.
func (r *Registry) Resolve(appKey, triggerKey string) (Resolved, error) {
	resolved, ok := r.index[indexKey{appKey: appKey, triggerKey: triggerKey}]
	if !ok {
		return Resolved{}, ErrNotFound
	}
	return resolved, nil
}

// List enumerates all projects and their triggers, with fire URLs built
// against serverURL.
func (r *Registry) List(serverURL string) map[string]ProjectInfo {
	result := make(map[string]ProjectInfo, len(r.projects))
	for name, project := range r.projects {
		info := ProjectInfo{
			Title:    name,
			AppKey:   project.AppKey,
			Triggers: make([]TriggerInfo, 0, len(project.Triggers)),
		}
		for title, cfg := range project.Triggers {
			info.Triggers = append(info.Triggers, TriggerInfo{
				Title:      title,
				TriggerKey: cfg.TriggerKey,
				URL:        fmt.Sprintf("%sapp/%s/%s", serverURL, project.AppKey, cfg.TriggerKey),
			})
		}
		sort.Slice(info.Triggers, func(i, j int) bool {
			return info.Triggers[i].Title < info.Triggers[j].Title
		})
		result[name] = info
	}
	return result
}
