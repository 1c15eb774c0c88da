// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dailyquest/dq/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the clock forward.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// FakeBackend is an in-memory test double for every backend port.
// Completions are not reflected in ListTasks, mimicking the backend's
// reporting lag. Set an *Err field to make the matching calls fail.
// Fields are ordered to minimize memory padding.
type FakeBackend struct {
	CompleteResp    *domain.CompleteResponse // canned reply; nil synthesizes one
	ListErr         error
	CreateErr       error
	UpdateErr       error
	DeleteErr       error
	CompleteErr     error
	UncompleteErr   error
	UserErr         error
	LoginErr        error
	RegisterErr     error
	TagErr          error
	StatsErr        error
	calls           map[string]int
	Tasks           []domain.Task
	Tags            []domain.Tag
	HistoryEntries  []domain.CompletionHistoryEntry
	AchievementList []domain.Achievement
	Token           domain.Token
	User            domain.User
	Stats           domain.DashboardStats
	UncompleteResp  domain.UncompleteResponse
	nextID          int
	mu              sync.Mutex
}

// Ensure FakeBackend implements the backend ports.
var (
	_ domain.TaskBackend   = (*FakeBackend)(nil)
	_ domain.UserBackend   = (*FakeBackend)(nil)
	_ domain.Authenticator = (*FakeBackend)(nil)
	_ domain.TagBackend    = (*FakeBackend)(nil)
	_ domain.StatsBackend  = (*FakeBackend)(nil)
)

// NewFakeBackend creates a FakeBackend holding tasks and a level 1 user.
func NewFakeBackend(tasks ...domain.Task) *FakeBackend {
	return &FakeBackend{
		Tasks: tasks,
		User:  domain.User{ID: "u-1", Username: "tester", Email: "tester@example.com", Level: 1},
		Token: domain.Token{AccessToken: "fake-token", TokenType: "bearer"},
		calls: make(map[string]int),
	}
}

// Calls returns how many times the named method was called.
func (f *FakeBackend) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// TotalCalls returns the number of backend calls of any kind.
func (f *FakeBackend) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeBackend) record(method string) {
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[method]++
}

func (f *FakeBackend) index(id string) int {
	return slices.IndexFunc(f.Tasks, func(t domain.Task) bool { return t.Common().ID == id })
}

func (f *FakeBackend) newID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-new-%d", prefix, f.nextID)
}

func notFound(id string) error {
	return &domain.Error{Kind: domain.KindNotFound, Status: 404, Message: "task " + id + " not found"}
}

// ListTasks returns a copy of the stored tasks.
func (f *FakeBackend) ListTasks(_ context.Context) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListTasks")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return slices.Clone(f.Tasks), nil
}

// CreateHabit stores a new habit.
func (f *FakeBackend) CreateHabit(_ context.Context, d domain.HabitDraft) (domain.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateHabit")
	if f.CreateErr != nil {
		return domain.Habit{}, f.CreateErr
	}
	h := domain.Habit{
		TaskBase: domain.TaskBase{
			ID: f.newID("h"), Title: d.Title, Description: d.Description,
			Difficulty: d.Difficulty, UserID: f.User.ID,
		},
		FrequencyType:        d.FrequencyType,
		FrequencyTargetTimes: d.FrequencyTargetTimes,
		FrequencyDays:        d.FrequencyDays,
	}
	f.Tasks = append(f.Tasks, h)
	return h, nil
}

// CreateTodo stores a new todo.
func (f *FakeBackend) CreateTodo(_ context.Context, d domain.TodoDraft) (domain.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTodo")
	if f.CreateErr != nil {
		return domain.Todo{}, f.CreateErr
	}
	t := domain.Todo{
		TaskBase: domain.TaskBase{
			ID: f.newID("t"), Title: d.Title, Description: d.Description,
			Difficulty: d.Difficulty, UserID: f.User.ID,
		},
		Deadline: d.Deadline,
	}
	f.Tasks = append(f.Tasks, t)
	return t, nil
}

// UpdateHabit applies patch to a stored habit.
func (f *FakeBackend) UpdateHabit(_ context.Context, id string, p domain.HabitPatch) (domain.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateHabit")
	if f.UpdateErr != nil {
		return domain.Habit{}, f.UpdateErr
	}
	i := f.index(id)
	if i < 0 {
		return domain.Habit{}, notFound(id)
	}
	h, ok := f.Tasks[i].(domain.Habit)
	if !ok {
		return domain.Habit{}, notFound(id)
	}
	h = p.Apply(h)
	f.Tasks[i] = h
	return h, nil
}

// UpdateTodo applies patch to a stored todo.
func (f *FakeBackend) UpdateTodo(_ context.Context, id string, p domain.TodoPatch) (domain.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateTodo")
	if f.UpdateErr != nil {
		return domain.Todo{}, f.UpdateErr
	}
	i := f.index(id)
	if i < 0 {
		return domain.Todo{}, notFound(id)
	}
	t, ok := f.Tasks[i].(domain.Todo)
	if !ok {
		return domain.Todo{}, notFound(id)
	}
	t = p.Apply(t)
	f.Tasks[i] = t
	return t, nil
}

// DeleteHabit removes a habit.
func (f *FakeBackend) DeleteHabit(_ context.Context, id string) error {
	return f.remove("DeleteHabit", id)
}

// DeleteTodo removes a todo.
func (f *FakeBackend) DeleteTodo(_ context.Context, id string) error {
	return f.remove("DeleteTodo", id)
}

func (f *FakeBackend) remove(method, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(method)
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	i := f.index(id)
	if i < 0 {
		return notFound(id)
	}
	f.Tasks = slices.Delete(f.Tasks, i, i+1)
	return nil
}

// CompleteTask returns CompleteResp, or synthesizes a response that awards
// the task's difficulty XP and bumps habit streaks.
func (f *FakeBackend) CompleteTask(_ context.Context, id string) (domain.CompleteResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CompleteTask")
	if f.CompleteErr != nil {
		return domain.CompleteResponse{}, f.CompleteErr
	}
	if f.CompleteResp != nil {
		return *f.CompleteResp, nil
	}
	i := f.index(id)
	if i < 0 {
		return domain.CompleteResponse{}, notFound(id)
	}
	task := f.Tasks[i]
	earned := domain.PreviewXP(task)
	prevLevel := f.User.Level
	f.User.XP += earned
	f.User.Level = domain.LevelForXP(f.User.XP)
	f.User.Coins++

	resp := domain.CompleteResponse{
		Message:       "Task completed",
		PreviousLevel: domain.NumericFromInt(prevLevel),
		LevelUp:       f.User.Level > prevLevel,
		Completion:    domain.TaskCompletion{ID: f.newID("c"), TaskID: id, UserID: f.User.ID, XPEarned: earned},
		User: &domain.UserSnapshot{
			ID: f.User.ID, Username: f.User.Username, Email: f.User.Email,
			XP: domain.NumericFromInt(f.User.XP), Level: domain.NumericFromInt(f.User.Level),
			Coins: domain.NumericFromInt(f.User.Coins),
		},
	}
	if h, ok := task.(domain.Habit); ok {
		streak := h.CurrentStreak + 1
		resp.Streak = &domain.StreakInfo{CurrentStreak: streak, BestStreak: max(streak, h.BestStreak)}
	}
	return resp, nil
}

// UncompleteTask returns UncompleteResp.
func (f *FakeBackend) UncompleteTask(_ context.Context, id string) (domain.UncompleteResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UncompleteTask")
	if f.UncompleteErr != nil {
		return domain.UncompleteResponse{}, f.UncompleteErr
	}
	if f.index(id) < 0 {
		return domain.UncompleteResponse{}, notFound(id)
	}
	f.User.XP = max(f.User.XP-f.UncompleteResp.XPRemoved, 0)
	return f.UncompleteResp, nil
}

// CurrentUser returns User.
func (f *FakeBackend) CurrentUser(_ context.Context) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CurrentUser")
	if f.UserErr != nil {
		return domain.User{}, f.UserErr
	}
	return f.User, nil
}

// Register returns a new level 1 user.
func (f *FakeBackend) Register(_ context.Context, req domain.RegisterRequest) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Register")
	if f.RegisterErr != nil {
		return domain.User{}, f.RegisterErr
	}
	return domain.User{ID: f.newID("u"), Username: req.Username, Email: req.Email, Level: 1}, nil
}

// Login returns Token.
func (f *FakeBackend) Login(_ context.Context, _, _ string) (domain.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Login")
	if f.LoginErr != nil {
		return domain.Token{}, f.LoginErr
	}
	return f.Token, nil
}

// ListTags returns Tags.
func (f *FakeBackend) ListTags(_ context.Context) ([]domain.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListTags")
	if f.TagErr != nil {
		return nil, f.TagErr
	}
	return slices.Clone(f.Tags), nil
}

// CreateTag stores a new tag.
func (f *FakeBackend) CreateTag(_ context.Context, name, color string) (domain.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTag")
	if f.TagErr != nil {
		return domain.Tag{}, f.TagErr
	}
	tag := domain.Tag{ID: f.newID("tag"), Name: name, Color: color, UserID: f.User.ID}
	f.Tags = append(f.Tags, tag)
	return tag, nil
}

// UpdateTag patches the stored tag and every task copy of it.
func (f *FakeBackend) UpdateTag(_ context.Context, tagID, name, color string) (domain.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateTag")
	if f.TagErr != nil {
		return domain.Tag{}, f.TagErr
	}
	ti := slices.IndexFunc(f.Tags, func(t domain.Tag) bool { return t.ID == tagID })
	if ti < 0 {
		return domain.Tag{}, tagNotFound()
	}
	if name != "" {
		f.Tags[ti].Name = name
	}
	if color != "" {
		f.Tags[ti].Color = color
	}
	tag := f.Tags[ti]
	f.eachTagged(tagID, func(tags []domain.Tag, j int) []domain.Tag {
		tags[j] = tag
		return tags
	})
	return tag, nil
}

// DeleteTag removes the tag and strips it from every task.
func (f *FakeBackend) DeleteTag(_ context.Context, tagID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTag")
	if f.TagErr != nil {
		return f.TagErr
	}
	ti := slices.IndexFunc(f.Tags, func(t domain.Tag) bool { return t.ID == tagID })
	if ti < 0 {
		return tagNotFound()
	}
	f.Tags = slices.Delete(f.Tags, ti, ti+1)
	f.eachTagged(tagID, func(tags []domain.Tag, j int) []domain.Tag {
		return slices.Delete(tags, j, j+1)
	})
	return nil
}

// eachTagged applies edit to a copy of the tag list of every task carrying tagID.
// Callers hold f.mu.
func (f *FakeBackend) eachTagged(tagID string, edit func(tags []domain.Tag, j int) []domain.Tag) {
	for i, t := range f.Tasks {
		tags := t.Common().Tags
		j := slices.IndexFunc(tags, func(tag domain.Tag) bool { return tag.ID == tagID })
		if j < 0 {
			continue
		}
		f.Tasks[i] = domain.WithTags(t, edit(slices.Clone(tags), j))
	}
}

func tagNotFound() error {
	return &domain.Error{Kind: domain.KindNotFound, Status: 404, Message: "tag not found"}
}

// AttachTag adds the tag to the task's tag list.
func (f *FakeBackend) AttachTag(_ context.Context, taskID, tagID string) error {
	return f.retag("AttachTag", taskID, tagID, true)
}

// DetachTag drops the tag from the task's tag list.
func (f *FakeBackend) DetachTag(_ context.Context, taskID, tagID string) error {
	return f.retag("DetachTag", taskID, tagID, false)
}

func (f *FakeBackend) retag(method, taskID, tagID string, attach bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(method)
	if f.TagErr != nil {
		return f.TagErr
	}
	i := f.index(taskID)
	if i < 0 {
		return notFound(taskID)
	}
	ti := slices.IndexFunc(f.Tags, func(t domain.Tag) bool { return t.ID == tagID })
	if ti < 0 {
		return tagNotFound()
	}
	update := func(tags []domain.Tag) []domain.Tag {
		tags = slices.DeleteFunc(slices.Clone(tags), func(t domain.Tag) bool { return t.ID == tagID })
		if attach {
			tags = append(tags, f.Tags[ti])
		}
		return tags
	}
	switch t := f.Tasks[i].(type) {
	case domain.Habit:
		t.Tags = update(t.Tags)
		f.Tasks[i] = t
	case domain.Todo:
		t.Tags = update(t.Tags)
		f.Tasks[i] = t
	}
	return nil
}

// TasksByTag returns the stored tasks carrying tagID.
func (f *FakeBackend) TasksByTag(_ context.Context, tagID string) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("TasksByTag")
	if f.TagErr != nil {
		return nil, f.TagErr
	}
	var out []domain.Task
	for _, t := range f.Tasks {
		if t.Common().HasTag(tagID) {
			out = append(out, t)
		}
	}
	return out, nil
}

// DashboardStats returns Stats.
func (f *FakeBackend) DashboardStats(_ context.Context) (domain.DashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DashboardStats")
	if f.StatsErr != nil {
		return domain.DashboardStats{}, f.StatsErr
	}
	return f.Stats, nil
}

// History returns HistoryEntries.
func (f *FakeBackend) History(_ context.Context) ([]domain.CompletionHistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("History")
	if f.StatsErr != nil {
		return nil, f.StatsErr
	}
	return slices.Clone(f.HistoryEntries), nil
}

// Achievements returns AchievementList.
func (f *FakeBackend) Achievements(_ context.Context) ([]domain.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Achievements")
	if f.StatsErr != nil {
		return nil, f.StatsErr
	}
	return slices.Clone(f.AchievementList), nil
}

// MemoryOverrides is an in-memory domain.CompletionOverrides.
// Fields are ordered to minimize memory padding.
type MemoryOverrides struct {
	Days      map[string][]string
	GetErr    error
	AddErr    error
	RemoveErr error
	PruneErr  error
	mu        sync.Mutex
}

// Ensure MemoryOverrides implements domain.CompletionOverrides.
var _ domain.CompletionOverrides = (*MemoryOverrides)(nil)

// NewMemoryOverrides creates an empty MemoryOverrides.
func NewMemoryOverrides() *MemoryOverrides {
	return &MemoryOverrides{Days: make(map[string][]string)}
}

// Get returns the IDs recorded for date.
func (m *MemoryOverrides) Get(date string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return slices.Clone(m.Days[date]), nil
}

// Add records taskID for date.
func (m *MemoryOverrides) Add(date, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddErr != nil {
		return m.AddErr
	}
	if m.Days == nil {
		m.Days = make(map[string][]string)
	}
	if !slices.Contains(m.Days[date], taskID) {
		m.Days[date] = append(m.Days[date], taskID)
	}
	return nil
}

// Remove drops taskID from date.
func (m *MemoryOverrides) Remove(date, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.Days[date] = slices.DeleteFunc(m.Days[date], func(id string) bool { return id == taskID })
	return nil
}

// Clear drops every ID recorded for date.
func (m *MemoryOverrides) Clear(date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Days, date)
	return nil
}

// Prune drops every date before the given one.
func (m *MemoryOverrides) Prune(before string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PruneErr != nil {
		return 0, m.PruneErr
	}
	n := 0
	for date := range m.Days {
		if date < before {
			delete(m.Days, date)
			n++
		}
	}
	return n, nil
}

// MockTokenStore is a test double for domain.TokenStore.
// An empty Token loads as domain.ErrUnauthorized.
// Fields are ordered to minimize memory padding.
type MockTokenStore struct {
	LoadErr  error
	SaveErr  error
	ClearErr error
	Token    domain.Token
	Saves    int
	Cleared  bool
}

// Load returns Token.
func (m *MockTokenStore) Load() (domain.Token, error) {
	if m.LoadErr != nil {
		return domain.Token{}, m.LoadErr
	}
	if m.Token.AccessToken == "" {
		return domain.Token{}, domain.ErrUnauthorized
	}
	return m.Token, nil
}

// Save stores the token.
func (m *MockTokenStore) Save(tok domain.Token) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Token = tok
	m.Saves++
	return nil
}

// Clear drops the token.
func (m *MockTokenStore) Clear() error {
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.Token = domain.Token{}
	m.Cleared = true
	return nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
}

// NewMockConfigLoader creates a MockConfigLoader returning the default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{Config: domain.NewDefaultConfig()}
}

// Load returns Config.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitErr       error
	Info          domain.ConfigInfo
	InitPath      string
	InitCalled    bool
	LastOverwrite bool
}

// GlobalConfigInfo returns Info.
func (m *MockConfigManager) GlobalConfigInfo() domain.ConfigInfo {
	return m.Info
}

// InitGlobalConfig records the call and returns InitPath.
func (m *MockConfigManager) InitGlobalConfig(overwrite bool) (string, error) {
	m.InitCalled = true
	m.LastOverwrite = overwrite
	if m.InitErr != nil {
		return "", m.InitErr
	}
	return m.InitPath, nil
}

// LogEntry is one recorded log call.
type LogEntry struct {
	Level    string
	TaskID   string
	Category string
	Msg      string
}

// MockLogger records log calls.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (m *MockLogger) add(level, taskID, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
}

// Info records an info entry.
func (m *MockLogger) Info(taskID, category, msg string) { m.add("INFO", taskID, category, msg) }

// Debug records a debug entry.
func (m *MockLogger) Debug(taskID, category, msg string) { m.add("DEBUG", taskID, category, msg) }

// Warn records a warning entry.
func (m *MockLogger) Warn(taskID, category, msg string) { m.add("WARN", taskID, category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(taskID, category, msg string) { m.add("ERROR", taskID, category, msg) }

// Count returns the number of entries at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}
