package main

import "testing"

func TestCollectOverridesLeavesUnsetFlagsNil(t *testing.T) {
	empty := ""
	noLocal := false

	overrides := collectOverrides(&empty, &empty, &empty, &empty, &empty, &noLocal)

	if overrides.OutDir != nil || overrides.LocalConfig != nil || overrides.TemplatesDir != nil ||
		overrides.BaseConfig != nil || overrides.SecretsFile != nil || overrides.SkipLocal != nil {
		t.Fatalf("expected all overrides nil, got %+v", overrides)
	}
}

func TestCollectOverridesCapturesSetFlags(t *testing.T) {
	out := "build/deploy"
	local := "override.yaml"
	templates := "tpl"
	base := "base.yaml"
	secretsFile := "store.yaml"
	noLocal := true

	overrides := collectOverrides(&out, &local, &templates, &base, &secretsFile, &noLocal)

	if overrides.OutDir == nil || *overrides.OutDir != out {
		t.Fatalf("expected out dir override, got %+v", overrides)
	}
	if overrides.LocalConfig == nil || *overrides.LocalConfig != local {
		t.Fatalf("expected local override, got %+v", overrides)
	}
	if overrides.TemplatesDir == nil || *overrides.TemplatesDir != templates {
		t.Fatalf("expected templates override, got %+v", overrides)
	}
	if overrides.BaseConfig == nil || *overrides.BaseConfig != base {
		t.Fatalf("expected base config override, got %+v", overrides)
	}
	if overrides.SecretsFile == nil || *overrides.SecretsFile != secretsFile {
		t.Fatalf("expected secrets file override, got %+v", overrides)
	}
	if overrides.SkipLocal == nil || !*overrides.SkipLocal {
		t.Fatalf("expected skip-local override, got %+v", overrides)
	}
}
