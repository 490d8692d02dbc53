package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kirillkom/document-triage/internal/core/classifier"
	"github.com/kirillkom/document-triage/internal/core/domain"
)

const boletoText = "Banco Itaú S.A.\nFicha de Compensação\nCarteira 109\nAutenticação mecânica\n" +
	"23793.38128 60082.704599 00001.403226 1 84660000025000\n"

func writeTextFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(classifier.New())
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestClassifyPrintsLabelPerFile(t *testing.T) {
	dir := t.TempDir()
	boleto := writeTextFile(t, dir, "boleto.txt", boletoText)
	other := writeTextFile(t, dir, "notes.txt", "Lista de compras: arroz, feijão")

	out, err := execute(t, "classify", boleto, other)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	want := boleto + "\tBoleto\n" + other + "\tOutros\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", out, want)
	}
}

func TestClassifyJSONEmitsBatchResult(t *testing.T) {
	dir := t.TempDir()
	boleto := writeTextFile(t, dir, "boleto.txt", boletoText)

	out, err := execute(t, "classify", "--json", "--source", "mail-9", boleto)
	if err != nil {
		t.Fatalf("classify --json: %v", err)
	}

	var result domain.ClassificationBatchResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if result.SourceIdentifier != "mail-9" || len(result.Files) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Files[0].FileName != "boleto.txt" || result.Files[0].FileType != domain.DocumentTypeBoleto {
		t.Fatalf("unexpected document: %+v", result.Files[0])
	}
}

func TestClassifyRequiresAtLeastOneFile(t *testing.T) {
	if _, err := execute(t, "classify"); err == nil {
		t.Fatalf("expected error without file arguments")
	}
}

func TestClassifyFailsOnMissingFile(t *testing.T) {
	_, err := execute(t, "classify", filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil || !strings.Contains(err.Error(), "missing.txt") {
		t.Fatalf("expected read error naming the file, got %v", err)
	}
}

func TestExplainListsEveryDetector(t *testing.T) {
	path := writeTextFile(t, t.TempDir(), "boleto.txt", boletoText)

	out, err := execute(t, "explain", path)
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.HasPrefix(out, path+": Boleto\n") {
		t.Fatalf("expected decision header, got:\n%s", out)
	}
	if !strings.Contains(out, "wide_numeric=true") {
		t.Fatalf("expected signals line, got:\n%s", out)
	}
	for _, detector := range []string{
		classifier.DetectorBodyMail,
		classifier.DetectorBoleto,
		classifier.DetectorNotaFiscal,
		classifier.DetectorFaturaRecibo,
	} {
		if !strings.Contains(out, detector) {
			t.Fatalf("expected detector %s in output:\n%s", detector, out)
		}
	}
}

func TestExplainJSON(t *testing.T) {
	path := writeTextFile(t, t.TempDir(), "empty.txt", "")

	out, err := execute(t, "explain", "--json", path)
	if err != nil {
		t.Fatalf("explain --json: %v", err)
	}

	var resp struct {
		Decision    classifier.Decision     `json:"decision"`
		Evaluations []classifier.Evaluation `json:"evaluations"`
		Signals     classifier.Signals      `json:"signals"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if resp.Decision.Type != domain.DocumentTypeOutros || len(resp.Evaluations) != 4 {
		t.Fatalf("unexpected explain output: %+v", resp)
	}
	if resp.Signals != (classifier.Signals{}) {
		t.Fatalf("expected empty signals for empty text, got %+v", resp.Signals)
	}
}
