package executil

// MockExecutor is a scriptable command executor for tests. Calls are recorded
// so assertions can inspect what was invoked.
type MockExecutor struct {
	LookPathFunc   func(file string) (string, error)
	RunFunc        func(name string, args ...string) (string, error)
	FileExistsFunc func(path string) bool

	Calls []MockCall
}

// MockCall records a single command invocation.
type MockCall struct {
	Name string
	Args []string
	Env  []string
}

func (m *MockExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

func (m *MockExecutor) Run(name string, args ...string) (string, error) {
	m.Calls = append(m.Calls, MockCall{Name: name, Args: args})
	if m.RunFunc != nil {
		return m.RunFunc(name, args...)
	}
	return "", nil
}

func (m *MockExecutor) RunEnv(env []string, name string, args ...string) (string, error) {
	m.Calls = append(m.Calls, MockCall{Name: name, Args: args, Env: env})
	if m.RunFunc != nil {
		return m.RunFunc(name, args...)
	}
	return "", nil
}

func (m *MockExecutor) CombinedOutput(name string, args ...string) ([]byte, error) {
	out, err := m.Run(name, args...)
	return []byte(out), err
}

func (m *MockExecutor) FileExists(path string) bool {
	if m.FileExistsFunc != nil {
		return m.FileExistsFunc(path)
	}
	return true
}

// CommandLines renders recorded calls as "name arg arg" strings for assertions.
func (m *MockExecutor) CommandLines() []string {
	lines := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		line := c.Name
		for _, a := range c.Args {
			line += " " + a
		}
		lines = append(lines, line)
	}
	return lines
}
