package main

import (
	"context"
	"errors"
	"testing"
)

type fakeRunner struct {
	ran bool
	err error
}

func (f *fakeRunner) Run(ctx context.Context) error {
	f.ran = true
	return f.err
}

func stub(t *testing.T, r runner, ctorErr error) *bool {
	t.Helper()
	oldCtor, oldFatalf := appCtor, fatalf
	t.Cleanup(func() { appCtor, fatalf = oldCtor, oldFatalf })

	appCtor = func() (runner, error) {
		if ctorErr != nil {
			return nil, ctorErr
		}
		return r, nil
	}
	called := false
	fatalf = func(format string, v ...any) { called = true }
	return &called
}

func TestRun_Success(t *testing.T) {
	fr := &fakeRunner{}
	calledFatal := stub(t, fr, nil)

	run(context.Background())

	if !fr.ran {
		t.Fatalf("expected runner.Run to be called")
	}
	if *calledFatal {
		t.Fatalf("did not expect fatalf to be called")
	}
}

func TestRun_FatalOnCtorError(t *testing.T) {
	calledFatal := stub(t, nil, errors.New("API key not found"))

	run(context.Background())

	if !*calledFatal {
		t.Fatalf("expected fatalf to be called on ctor error")
	}
}

func TestRun_FatalOnRunError(t *testing.T) {
	calledFatal := stub(t, &fakeRunner{err: errors.New("oops")}, nil)

	run(context.Background())

	if !*calledFatal {
		t.Fatalf("expected fatalf to be called on run error")
	}
}

func TestRootCmd_RunsApp(t *testing.T) {
	fr := &fakeRunner{}
	stub(t, fr, nil)

	rootCmd.SetArgs([]string{})
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !fr.ran {
		t.Fatalf("expected the app to run")
	}
}

func TestRootCmd_RejectsArguments(t *testing.T) {
	fr := &fakeRunner{}
	stub(t, fr, nil)

	rootCmd.SetArgs([]string{"pepperoni"})
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	if err := rootCmd.ExecuteContext(context.Background()); err == nil {
		t.Fatalf("expected an error for positional arguments")
	}
	if fr.ran {
		t.Fatalf("app must not run on bad arguments")
	}
}
