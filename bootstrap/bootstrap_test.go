package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/bytepipe/component"
	"github.com/kbukum/bytepipe/config"
	"github.com/kbukum/bytepipe/logger"
)

// testConfig satisfies Config through the embedded ServiceConfig.
type testConfig struct {
	config.ServiceConfig
}

type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	started  bool
	stopped  bool
	order    *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	m.started = true
	if m.order != nil {
		*m.order = append(*m.order, "start:"+m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.stopped = true
	if m.order != nil {
		*m.order = append(*m.order, "stop:"+m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) component.Health {
	if m.health.Name == "" {
		return component.Health{Name: m.name, Status: component.StatusHealthy}
	}
	return m.health
}

type describedComponent struct {
	mockComponent
	desc component.Description
}

func (d *describedComponent) Describe() component.Description { return d.desc }

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
		},
	}
}

func newTestApp(t *testing.T, out *bytes.Buffer) *App[*testConfig] {
	t.Helper()
	app, err := NewApp(newTestConfig("test-svc", "1.0.0"),
		WithLogger(logger.Nop()),
		WithSummaryOutput(out),
	)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(newTestConfig("test-svc", "1.0.0"), WithSummaryOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "test-svc" {
		t.Errorf("expected name 'test-svc', got %q", app.Name)
	}
	if app.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", app.Version)
	}
	if app.Components == nil || app.Logger == nil || app.Summary == nil {
		t.Fatal("expected components, logger and summary")
	}
	if app.Cfg.Logging.ServiceName != "test-svc" {
		t.Errorf("expected logging service name from config, got %q", app.Cfg.Logging.ServiceName)
	}
	if app.gracefulTimeout != 15*time.Second {
		t.Errorf("expected default 15s timeout, got %v", app.gracefulTimeout)
	}
}

func TestNewAppValidation(t *testing.T) {
	cfg := newTestConfig("test", "1.0")
	cfg.Environment = "moon"
	if _, err := NewApp(cfg); err == nil {
		t.Error("expected error for invalid environment")
	}
}

func TestNewAppDefaults(t *testing.T) {
	cfg := &testConfig{}
	app, err := NewApp(cfg, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "bytepipe" {
		t.Errorf("expected default name, got %q", app.Name)
	}
	if cfg.Environment != "development" {
		t.Errorf("expected default environment, got %q", cfg.Environment)
	}
}

func TestWithGracefulTimeout(t *testing.T) {
	app, err := NewApp(newTestConfig("test", "1.0"), WithGracefulTimeout(30*time.Second))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.gracefulTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", app.gracefulTimeout)
	}
}

func TestWithLogger(t *testing.T) {
	l := logger.Nop()
	app, _ := NewApp(newTestConfig("test", "1.0"), WithLogger(l))
	if app.Logger != l {
		t.Error("expected custom logger")
	}
}

func TestRegisterComponentDuplicate(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	if err := app.RegisterComponent(&mockComponent{name: "input_file"}); err != nil {
		t.Fatalf("RegisterComponent failed: %v", err)
	}
	if err := app.RegisterComponent(&mockComponent{name: "input_file"}); err == nil {
		t.Error("expected error for duplicate component")
	}
	if app.Components.Get("input_file") == nil {
		t.Error("expected component to be registered")
	}
}

func TestRunTaskSuccess(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	ran := false
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}
	if !ran {
		t.Error("expected task to run")
	}
}

func TestRunTaskError(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	taskErr := errors.New("boom")
	err := app.RunTask(context.Background(), func(ctx context.Context) error { return taskErr })
	if !errors.Is(err, taskErr) {
		t.Errorf("expected task error, got %v", err)
	}
}

func TestRunTaskCancellation(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := app.RunTask(ctx, func(ctx context.Context) error { return ctx.Err() })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunTaskLifecycleOrder(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	var order []string
	app.RegisterComponent(&mockComponent{name: "input_file", order: &order})
	app.RegisterComponent(&mockComponent{name: "output_file", order: &order})
	app.OnStart(func(ctx context.Context) error {
		order = append(order, "onStart")
		return nil
	})
	app.OnStop(func(ctx context.Context) error {
		order = append(order, "onStop")
		return nil
	})

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		order = append(order, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}

	want := []string{"start:input_file", "start:output_file", "onStart", "task", "onStop", "stop:output_file", "stop:input_file"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("expected order %v, got %v", want, order)
	}
}

func TestRunTaskComponentStartError(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	first := &mockComponent{name: "input_file"}
	failing := &mockComponent{name: "output_file", startErr: errors.New("cannot create")}
	app.RegisterComponent(first)
	app.RegisterComponent(failing)

	ran := false
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err == nil || !errors.Is(err, failing.startErr) {
		t.Fatalf("expected start error, got %v", err)
	}
	if ran {
		t.Error("task must not run when a component fails to start")
	}
	if !first.stopped {
		t.Error("expected started component to be stopped")
	}
	if failing.stopped {
		t.Error("failed component must not be stopped")
	}
}

func TestRunTaskWithStartHookError(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	app.OnStart(func(ctx context.Context) error { return errors.New("hook failed") })
	err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "onStart hook failed") {
		t.Errorf("expected onStart hook error, got %v", err)
	}
}

func TestRunTaskStopErrors(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	stopErr := errors.New("flush failed")
	app.RegisterComponent(&mockComponent{name: "output_file", stopErr: stopErr})

	err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
	if !errors.Is(err, stopErr) {
		t.Errorf("expected stop error, got %v", err)
	}

	taskErr := errors.New("task failed")
	app2 := newTestApp(t, &bytes.Buffer{})
	app2.RegisterComponent(&mockComponent{name: "output_file", stopErr: stopErr})
	err = app2.RunTask(context.Background(), func(ctx context.Context) error { return taskErr })
	if !errors.Is(err, taskErr) {
		t.Errorf("expected task error to take precedence, got %v", err)
	}
}

func TestRunTaskWithStopHookError(t *testing.T) {
	app := newTestApp(t, &bytes.Buffer{})
	c := &mockComponent{name: "output_file"}
	app.RegisterComponent(c)
	app.OnStop(func(ctx context.Context) error { return errors.New("stop hook") })

	err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
	if err == nil {
		t.Error("expected stop hook error")
	}
	if !c.stopped {
		t.Error("components must stop even when a stop hook fails")
	}
}

func TestHookErrorStopsExecution(t *testing.T) {
	calls := 0
	hooks := []Hook{
		func(ctx context.Context) error { calls++; return errors.New("first") },
		func(ctx context.Context) error { calls++; return nil },
	}
	err := runHooks(context.Background(), hooks)
	if err == nil || !strings.Contains(err.Error(), "hook 0 failed") {
		t.Errorf("expected hook 0 error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestSummaryDisplay(t *testing.T) {
	var out bytes.Buffer
	app := newTestApp(t, &out)
	app.RegisterComponent(&describedComponent{
		mockComponent: mockComponent{name: "input_file"},
		desc:          component.Description{Name: "Input", Type: "file", Details: "/tmp/in.bin"},
	})
	app.RegisterComponent(&mockComponent{
		name:   "telemetry",
		health: component.Health{Name: "telemetry", Status: component.StatusDegraded, Message: "disabled"},
	})

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		app.Summary.TrackResult("digest", "abc123")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}

	comps := app.Summary.Components()
	if len(comps) != 2 {
		t.Fatalf("expected 2 components, got %d", len(comps))
	}
	if comps[0].Name != "Input" || comps[0].Type != "file" {
		t.Errorf("expected described input component, got %+v", comps[0])
	}
	if comps[1].Status != component.StatusDegraded {
		t.Errorf("expected degraded telemetry, got %s", comps[1].Status)
	}

	text := out.String()
	for _, want := range []string{"test-svc v1.0.0 completed", "[file] /tmp/in.bin", "disabled", "digest", "abc123"} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
}

func TestSummaryDisplayFailure(t *testing.T) {
	var out bytes.Buffer
	s := NewSummary("bytepipe", "", &out)
	s.Display(errors.New("IO_READ_ERROR: cannot open input file"))
	text := out.String()
	if !strings.Contains(text, "bytepipe dev failed") {
		t.Errorf("expected failed header, got:\n%s", text)
	}
	if !strings.Contains(text, "Error: IO_READ_ERROR") {
		t.Errorf("expected error line, got:\n%s", text)
	}
}

func TestTreePrefix(t *testing.T) {
	if treePrefix(0, 2) != "├──" {
		t.Error("expected branch prefix")
	}
	if treePrefix(1, 2) != "└──" {
		t.Error("expected last prefix")
	}
}

func TestHealthStatusIcon(t *testing.T) {
	tests := map[component.HealthStatus]string{
		component.StatusHealthy:   "✅",
		component.StatusDegraded:  "⚠️",
		component.StatusUnhealthy: "❌",
		"unknown":                 "❓",
	}
	for status, want := range tests {
		if got := healthStatusIcon(status); got != want {
			t.Errorf("healthStatusIcon(%s) = %s, want %s", status, got, want)
		}
	}
}
