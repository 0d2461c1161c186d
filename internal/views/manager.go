package views

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/dafoggo/klinh-admin/internal/models"
)

// ErrViewNotFound is returned when no view matches an id or name
var ErrViewNotFound = errors.New("view not found")

// Manager manages saved filter views
type Manager struct {
	path  string
	views []models.SavedView
	now   func() time.Time
}

// NewManager creates a new views manager storing views.yaml in configDir
func NewManager(configDir string) (*Manager, error) {
	path := filepath.Join(configDir, "views.yaml")

	m := &Manager{
		path:  path,
		views: []models.SavedView{},
		now:   time.Now,
	}

	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load views: %w", err)
		}
	}

	return m, nil
}

// Load loads views from the YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read views file: %w", err)
	}

	if err := yaml.Unmarshal(data, &m.views); err != nil {
		return fmt.Errorf("failed to parse views: %w", err)
	}

	return nil
}

// Save writes views to the YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.views)
	if err != nil {
		return fmt.Errorf("failed to marshal views: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write views file: %w", err)
	}

	return nil
}

// Add saves a new view of table holding the given query string
func (m *Manager) Add(name, description, table, query string) (*models.SavedView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("view name cannot be empty")
	}
	if _, err := url.ParseQuery(query); err != nil {
		return nil, fmt.Errorf("invalid view query: %w", err)
	}

	for _, v := range m.views {
		if strings.EqualFold(v.Name, name) {
			return nil, fmt.Errorf("a view with the name '%s' already exists (names are case-insensitive)", name)
		}
	}

	now := m.now()
	view := models.SavedView{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Table:       table,
		Query:       query,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	m.views = append(m.views, view)

	if err := m.Save(); err != nil {
		return nil, fmt.Errorf("failed to save view: %w", err)
	}

	return &view, nil
}

// Update replaces the query of an existing view
func (m *Manager) Update(id, query string) error {
	if _, err := url.ParseQuery(query); err != nil {
		return fmt.Errorf("invalid view query: %w", err)
	}
	i, err := m.index(id)
	if err != nil {
		return err
	}
	m.views[i].Query = query
	m.views[i].UpdatedAt = m.now()
	if err := m.Save(); err != nil {
		return fmt.Errorf("failed to save view: %w", err)
	}
	return nil
}

// Delete deletes a view by ID
func (m *Manager) Delete(id string) error {
	i, err := m.index(id)
	if err != nil {
		return err
	}
	m.views = append(m.views[:i], m.views[i+1:]...)
	if err := m.Save(); err != nil {
		return fmt.Errorf("failed to save views after deletion: %w", err)
	}
	return nil
}

// Get returns a view by ID
func (m *Manager) Get(id string) (*models.SavedView, error) {
	i, err := m.index(id)
	if err != nil {
		return nil, err
	}
	v := m.views[i]
	return &v, nil
}

// Find returns a view by ID or case-insensitive name
func (m *Manager) Find(idOrName string) (*models.SavedView, error) {
	for _, v := range m.views {
		if v.ID == idOrName || strings.EqualFold(v.Name, idOrName) {
			v := v
			return &v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrViewNotFound, idOrName)
}

// GetAll returns all views
func (m *Manager) GetAll() []models.SavedView {
	out := make([]models.SavedView, len(m.views))
	copy(out, m.views)
	return out
}

// Search searches views by name or description
func (m *Manager) Search(query string) []models.SavedView {
	if query == "" {
		return m.GetAll()
	}

	query = strings.ToLower(query)
	var results []models.SavedView
	for _, v := range m.views {
		if strings.Contains(strings.ToLower(v.Name), query) ||
			strings.Contains(strings.ToLower(v.Description), query) {
			results = append(results, v)
		}
	}
	return results
}

// RecordUsage updates usage statistics for a view
func (m *Manager) RecordUsage(id string) error {
	i, err := m.index(id)
	if err != nil {
		return err
	}
	m.views[i].UsageCount++
	m.views[i].LastUsed = m.now()
	if err := m.Save(); err != nil {
		return fmt.Errorf("failed to save usage statistics: %w", err)
	}
	return nil
}

// GetMostUsed returns the most frequently used views
func (m *Manager) GetMostUsed(limit int) []models.SavedView {
	sorted := m.GetAll()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UsageCount > sorted[j].UsageCount
	})
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

// GetRecent returns the most recently used views
func (m *Manager) GetRecent(limit int) []models.SavedView {
	sorted := m.GetAll()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastUsed.After(sorted[j].LastUsed)
	})
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

// URL returns the location a view navigates to, relative to basePath
func URL(basePath string, view models.SavedView) string {
	if view.Query == "" {
		return basePath
	}
	return basePath + "?" + view.Query
}

func (m *Manager) index(id string) (int, error) {
	for i, v := range m.views {
		if v.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrViewNotFound, id)
}
