package store

// MockNameSource is a NameSource for tests.
type MockNameSource struct {
	Names Names
	Err   error
	Calls int
}

// LoadNames returns the configured names or error.
func (m *MockNameSource) LoadNames() (Names, error) {
	m.Calls++
	if m.Err != nil {
		return Names{}, m.Err
	}
	if m.Names.Chapters == nil && m.Names.Subchapters == nil {
		return NewNames(), nil
	}
	return m.Names, nil
}
