package cmd

import (
	"strings"
)

// fakeRunner records invocations and returns scripted results.
type fakeRunner struct {
	calls   []string
	outputs map[string][]byte
	errs    map[string]error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{outputs: map[string][]byte{}, errs: map[string]error{}}
}

func (f *fakeRunner) record(name string, args ...string) ([]byte, error) {
	k := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, k)
	if err, ok := f.errs[k]; ok {
		return f.outputs[k], err
	}
	return f.outputs[k], nil
}

func (f *fakeRunner) Run(name string, args ...string) ([]byte, error) {
	return f.record(name, args...)
}

func (f *fakeRunner) RunInDir(dir, name string, args ...string) ([]byte, error) {
	return f.record(name, args...)
}

func (f *fakeRunner) RunInteractive(name string, args ...string) error {
	_, err := f.record(name, args...)
	return err
}

func (f *fakeRunner) called(prefix string) bool {
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}
