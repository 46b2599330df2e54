package services

import (
	"sort"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sahilm/fuzzy"
	"github.com/willyosu/willybot/willybot/database"
)

// NamedRole is a self-assignable role.
type NamedRole struct {
	Name string
	ID   snowflake.ID
}

// RoleMenu is a fixed set of self-assignable roles such as colours or
// notification pings. Exclusive menus allow one role at a time.
type RoleMenu struct {
	entity    string
	roles     []NamedRole
	byName    map[string]NamedRole
	exclusive bool
}

func NewRoleMenu(entity string, roles map[string]snowflake.ID, exclusive bool) *RoleMenu {
	m := &RoleMenu{
		entity:    entity,
		byName:    make(map[string]NamedRole, len(roles)),
		exclusive: exclusive,
	}
	for name, id := range roles {
		role := NamedRole{Name: strings.ToLower(name), ID: id}
		m.roles = append(m.roles, role)
		m.byName[role.Name] = role
	}
	sort.Slice(m.roles, func(i, j int) bool { return m.roles[i].Name < m.roles[j].Name })
	return m
}

func (m *RoleMenu) Exclusive() bool {
	return m.exclusive
}

func (m *RoleMenu) Roles() []NamedRole {
	return m.roles
}

func (m *RoleMenu) Names() []string {
	names := make([]string, len(m.roles))
	for i, r := range m.roles {
		names[i] = r.Name
	}
	return names
}

// Resolve finds a role by its exact name, ignoring case.
func (m *RoleMenu) Resolve(name string) (NamedRole, error) {
	role, ok := m.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return NamedRole{}, &database.NotFoundError{Entity: m.entity, Key: "name", ID: name}
	}
	return role, nil
}

// Suggest returns up to n role names that fuzzily match the input, best
// match first.
func (m *RoleMenu) Suggest(input string, n int) []string {
	matches := fuzzy.Find(strings.ToLower(strings.TrimSpace(input)), m.Names())
	var out []string
	for i := 0; i < len(matches) && i < n; i++ {
		out = append(out, matches[i].Str)
	}
	return out
}

func (m *RoleMenu) Contains(id snowflake.ID) bool {
	for _, r := range m.roles {
		if r.ID == id {
			return true
		}
	}
	return false
}

// Others lists the ids in held that belong to this menu, except keep.
func (m *RoleMenu) Others(held []snowflake.ID, keep snowflake.ID) []snowflake.ID {
	var out []snowflake.ID
	for _, id := range held {
		if id != keep && m.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}
