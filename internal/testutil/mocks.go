package testutil

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prompttracker/prompttracker-backend/internal/domain"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	ByID  map[uuid.UUID]*domain.User
	// WorkspaceRepo, when set, receives the personal workspace created by
	// CreateWithPersonalWorkspace
	WorkspaceRepo *MockWorkspaceRepository
	CreateErr     error
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuthID retrieves a user by external identity ID
func (m *MockUserRepository) GetByAuthID(authID string) (*domain.User, error) {
	if user, ok := m.Users[authID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// Update updates an existing user
func (m *MockUserRepository) Update(user *domain.User) (*domain.User, error) {
	if _, ok := m.ByID[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	m.Users[user.AuthID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// UpdateImageURL updates only the user's avatar URL
func (m *MockUserRepository) UpdateImageURL(id uuid.UUID, imageURL string) (*domain.User, error) {
	user, ok := m.ByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.ImageURL = &imageURL
	return user, nil
}

// CreateWithPersonalWorkspace creates the user together with a personal
// workspace and OWNER membership
func (m *MockUserRepository) CreateWithPersonalWorkspace(user *domain.User, workspaceName string) (*domain.User, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.Users[user.AuthID] = user
	m.ByID[user.ID] = user

	if m.WorkspaceRepo != nil {
		_, _ = m.WorkspaceRepo.CreateWithOwner(&domain.Workspace{
			Name:    workspaceName,
			Type:    domain.WorkspaceTypePersonal,
			OwnerID: user.ID,
		})
	}
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.Users[user.AuthID] = user
	m.ByID[user.ID] = user
}

// MockWorkspaceRepository is a mock implementation of domain.WorkspaceRepository
type MockWorkspaceRepository struct {
	Workspaces map[uuid.UUID]*domain.Workspace
	Members    map[uuid.UUID]map[uuid.UUID]*domain.WorkspaceMember
	users      *MockUserRepository
}

// NewMockWorkspaceRepository creates a new MockWorkspaceRepository
func NewMockWorkspaceRepository() *MockWorkspaceRepository {
	return &MockWorkspaceRepository{
		Workspaces: make(map[uuid.UUID]*domain.Workspace),
		Members:    make(map[uuid.UUID]map[uuid.UUID]*domain.WorkspaceMember),
	}
}

// LinkUsers wires the user repo so member user summaries can be populated
func (m *MockWorkspaceRepository) LinkUsers(users *MockUserRepository) {
	m.users = users
}

// GetByID retrieves a workspace by ID
func (m *MockWorkspaceRepository) GetByID(id uuid.UUID) (*domain.Workspace, error) {
	if ws, ok := m.Workspaces[id]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// GetWithMembers retrieves a workspace with its membership rows
func (m *MockWorkspaceRepository) GetWithMembers(id uuid.UUID) (*domain.Workspace, error) {
	ws, ok := m.Workspaces[id]
	if !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	copied := *ws
	copied.Members = m.membersOf(id)
	return &copied, nil
}

// ListForUser returns every workspace the user is a member of
func (m *MockWorkspaceRepository) ListForUser(userID uuid.UUID) ([]*domain.Workspace, error) {
	var result []*domain.Workspace
	for id, members := range m.Members {
		if _, ok := members[userID]; !ok {
			continue
		}
		ws := m.Workspaces[id]
		copied := *ws
		copied.Members = m.membersOf(id)
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// CreateWithOwner creates the workspace and an OWNER membership
func (m *MockWorkspaceRepository) CreateWithOwner(workspace *domain.Workspace) (*domain.Workspace, error) {
	workspace.ID = uuid.New()
	workspace.CreatedAt = time.Now()
	workspace.UpdatedAt = workspace.CreatedAt
	m.Workspaces[workspace.ID] = workspace
	m.Members[workspace.ID] = map[uuid.UUID]*domain.WorkspaceMember{
		workspace.OwnerID: {
			WorkspaceID: workspace.ID,
			UserID:      workspace.OwnerID,
			Role:        domain.RoleOwner,
			CreatedAt:   workspace.CreatedAt,
		},
	}
	return workspace, nil
}

// UpdateName renames a workspace
func (m *MockWorkspaceRepository) UpdateName(id uuid.UUID, name string) (*domain.Workspace, error) {
	ws, ok := m.Workspaces[id]
	if !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	ws.Name = name
	ws.UpdatedAt = time.Now()
	return ws, nil
}

// Delete removes the workspace and its memberships
func (m *MockWorkspaceRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Workspaces[id]; !ok {
		return domain.ErrWorkspaceNotFound
	}
	delete(m.Workspaces, id)
	delete(m.Members, id)
	return nil
}

// GetMember returns the membership row, or ErrForbidden when none exists
func (m *MockWorkspaceRepository) GetMember(workspaceID, userID uuid.UUID) (*domain.WorkspaceMember, error) {
	if members, ok := m.Members[workspaceID]; ok {
		if member, ok := members[userID]; ok {
			return member, nil
		}
	}
	return nil, domain.ErrForbidden
}

// CountOwnedByUser counts workspaces owned by the user
func (m *MockWorkspaceRepository) CountOwnedByUser(userID uuid.UUID) (int64, error) {
	var count int64
	for _, ws := range m.Workspaces {
		if ws.OwnerID == userID {
			count++
		}
	}
	return count, nil
}

// AddMember adds a membership row (helper for tests)
func (m *MockWorkspaceRepository) AddMember(workspaceID, userID uuid.UUID, role domain.MemberRole) {
	if _, ok := m.Members[workspaceID]; !ok {
		m.Members[workspaceID] = make(map[uuid.UUID]*domain.WorkspaceMember)
	}
	m.Members[workspaceID][userID] = &domain.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
		CreatedAt:   time.Now(),
	}
}

func (m *MockWorkspaceRepository) membersOf(workspaceID uuid.UUID) []domain.WorkspaceMember {
	var members []domain.WorkspaceMember
	for _, member := range m.Members[workspaceID] {
		copied := *member
		if m.users != nil {
			if user, ok := m.users.ByID[member.UserID]; ok {
				copied.User = user.Summary()
			}
		}
		members = append(members, copied)
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].UserID.String() < members[j].UserID.String()
	})
	return members
}

// MockCollectionRepository is a mock implementation of domain.CollectionRepository
type MockCollectionRepository struct {
	Collections map[uuid.UUID]*domain.Collection
	// Prompts, when linked, has its prompts detached on Delete
	Prompts *MockPromptRepository
}

// NewMockCollectionRepository creates a new MockCollectionRepository
func NewMockCollectionRepository() *MockCollectionRepository {
	return &MockCollectionRepository{
		Collections: make(map[uuid.UUID]*domain.Collection),
	}
}

// GetByID retrieves a collection by ID
func (m *MockCollectionRepository) GetByID(id uuid.UUID) (*domain.Collection, error) {
	if collection, ok := m.Collections[id]; ok {
		return collection, nil
	}
	return nil, domain.ErrCollectionNotFound
}

// ListByWorkspace returns the workspace's collections ordered by name
func (m *MockCollectionRepository) ListByWorkspace(workspaceID uuid.UUID) ([]*domain.Collection, error) {
	var result []*domain.Collection
	for _, collection := range m.Collections {
		if collection.WorkspaceID == workspaceID {
			result = append(result, collection)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// Create creates a new collection
func (m *MockCollectionRepository) Create(collection *domain.Collection) (*domain.Collection, error) {
	collection.ID = uuid.New()
	collection.CreatedAt = time.Now()
	collection.UpdatedAt = collection.CreatedAt
	m.Collections[collection.ID] = collection
	return collection, nil
}

// Update updates an existing collection
func (m *MockCollectionRepository) Update(collection *domain.Collection) (*domain.Collection, error) {
	if _, ok := m.Collections[collection.ID]; !ok {
		return nil, domain.ErrCollectionNotFound
	}
	collection.UpdatedAt = time.Now()
	m.Collections[collection.ID] = collection
	return collection, nil
}

// Delete detaches prompts and removes the collection
func (m *MockCollectionRepository) Delete(id uuid.UUID) error {
	if _, ok := m.Collections[id]; !ok {
		return domain.ErrCollectionNotFound
	}
	if m.Prompts != nil {
		for _, prompt := range m.Prompts.Prompts {
			if prompt.CollectionID != nil && *prompt.CollectionID == id {
				prompt.CollectionID = nil
			}
		}
	}
	delete(m.Collections, id)
	return nil
}

// MockPromptRepository is a mock implementation of domain.PromptRepository
type MockPromptRepository struct {
	Prompts  map[uuid.UUID]*domain.Prompt
	Versions map[uuid.UUID]*domain.PromptVersion
	Runs     map[uuid.UUID]*domain.PromptRun
	Tags     map[string]*domain.Tag
	// PromptTags maps prompt ID to its tag names
	PromptTags map[uuid.UUID][]string
}

// NewMockPromptRepository creates a new MockPromptRepository
func NewMockPromptRepository() *MockPromptRepository {
	return &MockPromptRepository{
		Prompts:    make(map[uuid.UUID]*domain.Prompt),
		Versions:   make(map[uuid.UUID]*domain.PromptVersion),
		Runs:       make(map[uuid.UUID]*domain.PromptRun),
		Tags:       make(map[string]*domain.Tag),
		PromptTags: make(map[uuid.UUID][]string),
	}
}

// GetByID retrieves a prompt by ID
func (m *MockPromptRepository) GetByID(id uuid.UUID) (*domain.Prompt, error) {
	if prompt, ok := m.Prompts[id]; ok {
		return prompt, nil
	}
	return nil, domain.ErrPromptNotFound
}

// GetDetail retrieves a prompt with its versions (descending) and tags
func (m *MockPromptRepository) GetDetail(id uuid.UUID) (*domain.Prompt, error) {
	prompt, ok := m.Prompts[id]
	if !ok {
		return nil, domain.ErrPromptNotFound
	}
	copied := *prompt
	copied.Tags = m.tagsOf(id)
	copied.Versions = m.versionsOf(id)
	return &copied, nil
}

// List returns workspace prompts matching the filter, most recently updated first
func (m *MockPromptRepository) List(workspaceID uuid.UUID, filter domain.PromptFilter) ([]*domain.Prompt, error) {
	var result []*domain.Prompt
	for id, prompt := range m.Prompts {
		if prompt.WorkspaceID != workspaceID {
			continue
		}
		if filter.CollectionID != nil {
			if prompt.CollectionID == nil || *prompt.CollectionID != *filter.CollectionID {
				continue
			}
		}
		if len(filter.TagNames) > 0 && !m.hasAnyTag(id, filter.TagNames) {
			continue
		}
		if filter.Search != "" && !m.matchesSearch(id, filter.Search) {
			continue
		}
		copied := *prompt
		copied.Tags = m.tagsOf(id)
		versions := m.versionsOf(id)
		copied.VersionCount = int64(len(versions))
		for i := range versions {
			if versions[i].IsDefault {
				copied.DefaultVersion = &versions[i]
				break
			}
		}
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

// CreateWithVersion creates the prompt, version 1 marked default, and tag links
func (m *MockPromptRepository) CreateWithVersion(prompt *domain.Prompt, content string, tagNames []string) (*domain.Prompt, error) {
	prompt.ID = uuid.New()
	prompt.CreatedAt = time.Now()
	prompt.UpdatedAt = prompt.CreatedAt
	m.Prompts[prompt.ID] = prompt

	version := &domain.PromptVersion{
		ID:            uuid.New(),
		PromptID:      prompt.ID,
		VersionNumber: 1,
		Content:       content,
		IsDefault:     true,
		CreatedByID:   prompt.CreatedByID,
		CreatedAt:     prompt.CreatedAt,
	}
	m.Versions[version.ID] = version

	m.linkTags(prompt.ID, tagNames)
	return m.GetDetail(prompt.ID)
}

// Update applies the partial update and replaces tags when set
func (m *MockPromptRepository) Update(id uuid.UUID, params domain.UpdatePromptParams) (*domain.Prompt, error) {
	prompt, ok := m.Prompts[id]
	if !ok {
		return nil, domain.ErrPromptNotFound
	}
	if params.Title != nil {
		prompt.Title = *params.Title
	}
	if params.Description != nil {
		prompt.Description = params.Description
	}
	if params.CollectionIDSet {
		prompt.CollectionID = params.CollectionID
	}
	if params.Tags != nil {
		m.PromptTags[id] = nil
		m.linkTags(id, *params.Tags)
	}
	prompt.UpdatedAt = time.Now()
	return m.GetDetail(id)
}

// Delete removes runs, versions, tag links and the prompt itself
func (m *MockPromptRepository) Delete(id uuid.UUID) (*domain.Prompt, error) {
	prompt, ok := m.Prompts[id]
	if !ok {
		return nil, domain.ErrPromptNotFound
	}
	for versionID, version := range m.Versions {
		if version.PromptID != id {
			continue
		}
		for runID, run := range m.Runs {
			if run.PromptVersionID == versionID {
				delete(m.Runs, runID)
			}
		}
		delete(m.Versions, versionID)
	}
	delete(m.PromptTags, id)
	delete(m.Prompts, id)
	return prompt, nil
}

// CreateVersion creates a version numbered max+1, never default
func (m *MockPromptRepository) CreateVersion(version *domain.PromptVersion) (*domain.PromptVersion, error) {
	if _, ok := m.Prompts[version.PromptID]; !ok {
		return nil, domain.ErrPromptNotFound
	}
	var max int32
	for _, existing := range m.Versions {
		if existing.PromptID == version.PromptID && existing.VersionNumber > max {
			max = existing.VersionNumber
		}
	}
	version.ID = uuid.New()
	version.VersionNumber = max + 1
	version.IsDefault = false
	version.CreatedAt = time.Now()
	m.Versions[version.ID] = version
	return version, nil
}

// GetVersion retrieves a version by ID
func (m *MockPromptRepository) GetVersion(id uuid.UUID) (*domain.PromptVersion, error) {
	if version, ok := m.Versions[id]; ok {
		return version, nil
	}
	return nil, domain.ErrVersionNotFound
}

// CreateRun appends a run log entry
func (m *MockPromptRepository) CreateRun(run *domain.PromptRun) (*domain.PromptRun, error) {
	if _, ok := m.Versions[run.PromptVersionID]; !ok {
		return nil, domain.ErrVersionNotFound
	}
	run.ID = uuid.New()
	run.CreatedAt = time.Now()
	m.Runs[run.ID] = run
	return run, nil
}

func (m *MockPromptRepository) linkTags(promptID uuid.UUID, tagNames []string) {
	seen := make(map[string]bool)
	for _, name := range tagNames {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		if _, ok := m.Tags[name]; !ok {
			m.Tags[name] = &domain.Tag{ID: uuid.New(), Name: name}
		}
		m.PromptTags[promptID] = append(m.PromptTags[promptID], name)
	}
}

func (m *MockPromptRepository) tagsOf(promptID uuid.UUID) []domain.Tag {
	names := append([]string(nil), m.PromptTags[promptID]...)
	sort.Strings(names)
	var tags []domain.Tag
	for _, name := range names {
		tags = append(tags, *m.Tags[name])
	}
	return tags
}

func (m *MockPromptRepository) versionsOf(promptID uuid.UUID) []domain.PromptVersion {
	var versions []domain.PromptVersion
	for _, version := range m.Versions {
		if version.PromptID == promptID {
			versions = append(versions, *version)
		}
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].VersionNumber > versions[j].VersionNumber
	})
	return versions
}

func (m *MockPromptRepository) hasAnyTag(promptID uuid.UUID, names []string) bool {
	for _, have := range m.PromptTags[promptID] {
		for _, want := range names {
			if have == want {
				return true
			}
		}
	}
	return false
}

func (m *MockPromptRepository) matchesSearch(promptID uuid.UUID, search string) bool {
	needle := strings.ToLower(search)
	prompt := m.Prompts[promptID]
	if strings.Contains(strings.ToLower(prompt.Title), needle) {
		return true
	}
	if prompt.Description != nil && strings.Contains(strings.ToLower(*prompt.Description), needle) {
		return true
	}
	for _, version := range m.Versions {
		if version.PromptID == promptID && strings.Contains(strings.ToLower(version.Content), needle) {
			return true
		}
	}
	for _, name := range m.PromptTags[promptID] {
		if strings.Contains(strings.ToLower(name), needle) {
			return true
		}
	}
	return false
}
