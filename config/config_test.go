package config

import "testing"

func TestLoad_EmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Window.TargetFPS != 60 {
		t.Errorf("Window.TargetFPS = %d, want 60", cfg.Window.TargetFPS)
	}
	if cfg.Caches.ShapeCacheCapacity != 128 {
		t.Errorf("Caches.ShapeCacheCapacity = %d, want 128", cfg.Caches.ShapeCacheCapacity)
	}
}

func TestLoad_ComputesDerived(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := 1.0 / 60.0
	if cfg.Derived.DT != want {
		t.Errorf("Derived.DT = %v, want %v", cfg.Derived.DT, want)
	}
}

func TestCfg_PanicsBeforeInit(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Cfg() did not panic before Init()")
		}
	}()
	global = nil
	Cfg()
}

func TestInit_ThenCfg(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if Cfg().Window.Width != 1280 {
		t.Errorf("Cfg().Window.Width = %d, want 1280", Cfg().Window.Width)
	}
}
