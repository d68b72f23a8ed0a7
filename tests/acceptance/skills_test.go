package acceptance

import (
	"bytes"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

type invocation struct {
	stdout string
	stderr string
}

func invoke(t *testing.T, binary, stdin string, env []string, args ...string) invocation {
	t.Helper()

	cmd := exec.Command(filepath.Join(binDir, binary), args...)
	cmd.Dir = t.TempDir()
	cmd.Env = append([]string{"HOME=" + t.TempDir()}, env...)
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.Fatalf("%s exited with error: %v\nstderr: %s", binary, err, stderr.String())
	}
	return invocation{stdout: stdout.String(), stderr: stderr.String()}
}

func assertJSON(t *testing.T, want, got string) {
	t.Helper()

	var w, g any
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("invalid expected JSON %q: %v", want, err)
	}
	if err := json.Unmarshal([]byte(got), &g); err != nil {
		t.Fatalf("output is not JSON: %q: %v", got, err)
	}
	wb, _ := json.Marshal(w)
	gb, _ := json.Marshal(g)
	if !bytes.Equal(wb, gb) {
		t.Errorf("unexpected output\nwant: %s\ngot:  %s", wb, gb)
	}
}

func TestYAMLSnippet(t *testing.T) {
	out := invoke(t, "yaml-snippet", `{"name":"deploy","action":"run_script","with":{"path":"a:b"}}`, nil)
	assertJSON(t, `{"yaml":"- name: deploy\n  action: run_script\n  with:\n    path: \"a:b\"","issues":[]}`, out.stdout)

	out = invoke(t, "yaml-snippet", `{"name":"  ","action":"go"}`, nil, "run")
	assertJSON(t, `{"yaml":"- name: \"\"\n  action: go\n  with:","issues":["name is required"]}`, out.stdout)
}

func TestYAMLSnippetKeepsKeyOrder(t *testing.T) {
	out := invoke(t, "yaml-snippet", `{"name":"n","action":"a","with":{"z":1,"a":2}}`, nil)
	if !strings.Contains(out.stdout, `with:\n    z: 1\n    a: 2`) {
		t.Errorf("keys should keep their input order, got: %s", out.stdout)
	}
}

func TestYAMLReview(t *testing.T) {
	out := invoke(t, "yaml-review", `{"yaml":"steps:\n- name: deploy\n  action: run\n  with:\n    x: 1"}`, nil)
	assertJSON(t, `{"ok":true,"issues":[]}`, out.stdout)

	out = invoke(t, "yaml-review", `{"yaml":"steps:\n- name: deploy\n"}`, nil)
	assertJSON(t, `{"ok":false,"issues":["missing action field","missing with field"]}`, out.stdout)
}

func TestSnippetThenReview(t *testing.T) {
	snippet := invoke(t, "yaml-snippet", `{"name":"build","action":"make","with":{"targets":["all","test"]}}`, nil)

	var emitted struct {
		YAML string `json:"yaml"`
	}
	if err := json.Unmarshal([]byte(snippet.stdout), &emitted); err != nil {
		t.Fatalf("failed to decode snippet output: %v", err)
	}

	payload, _ := json.Marshal(map[string]string{"yaml": "steps:\n" + emitted.YAML})
	out := invoke(t, "yaml-review", string(payload), nil)
	assertJSON(t, `{"ok":true,"issues":[]}`, out.stdout)
}

func TestPlanCheck(t *testing.T) {
	out := invoke(t, "plan-check", `{"plan_json":"[{\"step_name\":\"a\"},{\"step_name\":\"\"},3]"}`, nil)
	assertJSON(t, `{"ok":false,"issues":["steps[1] missing step_name","steps[2] must be object"],"step_count":3}`, out.stdout)
}

func TestPing(t *testing.T) {
	out := invoke(t, "ping", `{}`, []string{"BOPS_ARG_HOST=db.internal"})
	assertJSON(t, `{"ok":true,"host":"db.internal","count":1,"message":"Simulated ping to db.internal with count=1."}`, out.stdout)
}

func TestMalformedInputNeverFails(t *testing.T) {
	inputs := []string{"", "not json", "[1,2]", `{"name":`}

	for _, binary := range binaries {
		for _, input := range inputs {
			out := invoke(t, binary, input, nil)
			var result map[string]any
			if err := json.Unmarshal([]byte(out.stdout), &result); err != nil {
				t.Errorf("%s produced invalid JSON for %q: %v", binary, input, err)
			}
		}
	}
}

func TestStdoutIsOnlyJSON(t *testing.T) {
	out := invoke(t, "yaml-review", "{bad", []string{"STEPKIT_LOG_LEVEL=debug"})

	if strings.Count(out.stdout, "\n") != 1 {
		t.Errorf("stdout should hold exactly one line, got: %q", out.stdout)
	}
	if !strings.Contains(out.stderr, "payload discarded") {
		t.Errorf("diagnostics should go to stderr, got: %q", out.stderr)
	}
}
