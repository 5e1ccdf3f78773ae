package buildopts

import "testing"

func envFrom(m map[string]string) GetenvFunc {
	return func(key string) string { return m[key] }
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	opts := New(envFrom(nil), nil)

	if opts.Cores != DefaultCores {
		t.Errorf("Cores = %d, want %d", opts.Cores, DefaultCores)
	}
	if opts.WalltimeHours != DefaultWalltimeHours {
		t.Errorf("WalltimeHours = %d, want %d", opts.WalltimeHours, DefaultWalltimeHours)
	}
	if opts.DryRun {
		t.Error("DryRun should default to false")
	}
}

func TestNew_FromEnvironment(t *testing.T) {
	t.Parallel()

	opts := New(envFrom(map[string]string{
		"EASYBUILD_JOB_CORES":        "16",
		"EASYBUILD_JOB_MAX_WALLTIME": "48",
		"EASYBUILD_JOB_OUTPUT_DIR":   "/out",
		"EASYBUILD_ACCEPT_EULA_FOR":  "Intel",
		"DRYRUN":                     "Yes",
	}), []string{"--robot"})

	if opts.Cores != 16 || opts.WalltimeHours != 48 {
		t.Errorf("resources = %d cores / %dh, want 16 / 48h", opts.Cores, opts.WalltimeHours)
	}
	if opts.OutputDir != "/out" {
		t.Errorf("OutputDir = %q, want /out", opts.OutputDir)
	}
	if opts.AcceptEULAFor != "Intel" {
		t.Errorf("AcceptEULAFor = %q, want Intel", opts.AcceptEULAFor)
	}
	if !opts.DryRun {
		t.Error("DRYRUN=Yes should enable DryRun")
	}
	if len(opts.EBArgs) != 1 || opts.EBArgs[0] != "--robot" {
		t.Errorf("EBArgs = %v, want [--robot]", opts.EBArgs)
	}
}

func TestNew_InvalidNumbersFallBack(t *testing.T) {
	t.Parallel()

	opts := New(envFrom(map[string]string{
		"EASYBUILD_JOB_CORES":        "lots",
		"EASYBUILD_JOB_MAX_WALLTIME": "-3",
	}), nil)

	if opts.Cores != DefaultCores || opts.WalltimeHours != DefaultWalltimeHours {
		t.Errorf("invalid values must fall back to defaults, got %d / %d",
			opts.Cores, opts.WalltimeHours)
	}
}

func TestPassthrough(t *testing.T) {
	t.Parallel()

	opts := New(envFrom(map[string]string{"SCHEDULER_PARAMETERS": "-p gpu"}), nil)

	if got := opts.Passthrough("SCHEDULER_PARAMETERS"); got != "-p gpu" {
		t.Errorf("set variable: got %q, want %q", got, "-p gpu")
	}
	if got := opts.Passthrough("patheb"); got != "$patheb" {
		t.Errorf("unset variable: got %q, want reference %q", got, "$patheb")
	}
	if got := opts.PassthroughDefault("CUDA_COMPUTE_CAPABILITIES", "8.0"); got != "8.0" {
		t.Errorf("unset variable with fallback: got %q, want %q", got, "8.0")
	}
}

func TestIsTruthy(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"1", "true", "TRUE", "yes", " Yes "} {
		if !IsTruthy(v) {
			t.Errorf("IsTruthy(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"", "0", "false", "no", "maybe"} {
		if IsTruthy(v) {
			t.Errorf("IsTruthy(%q) = true, want false", v)
		}
	}
}
