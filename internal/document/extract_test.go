package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

// buildPDF assembles a minimal uncompressed PDF with one line of text
// per page, with a hand-written cross-reference table.
func buildPDF(pages []string) []byte {
	var buf bytes.Buffer
	var offsets []int
	addObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i)
	}
	addObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	addObj(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n",
		strings.Join(kids, " "), len(pages)))

	fontObj := 3 + len(pages)
	for i := range pages {
		addObj(fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>\nendobj\n",
			3+i, fontObj, fontObj+1+i))
	}
	addObj(fmt.Sprintf("%d 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n", fontObj))
	for i, text := range pages {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		addObj(fmt.Sprintf("%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
			fontObj+1+i, len(stream), stream))
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefOffset)
	return buf.Bytes()
}

func TestSplitPageLossless(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		chunkSize int
		wantLens  []int
	}{
		{"empty page", "", 1000, nil},
		{"shorter than chunk", strings.Repeat("a", 400), 1000, []int{400}},
		{"exact multiple", strings.Repeat("b", 2000), 1000, []int{1000, 1000}},
		{"remainder", strings.Repeat("c", 1500), 1000, []int{1000, 500}},
		{"chunk size one", "abc", 1, []int{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitPage(tt.text, tt.chunkSize)
			if len(chunks) != len(tt.wantLens) {
				t.Fatalf("got %d chunks, want %d", len(chunks), len(tt.wantLens))
			}
			for i, c := range chunks {
				if len([]rune(c)) != tt.wantLens[i] {
					t.Errorf("chunk %d has length %d, want %d", i, len([]rune(c)), tt.wantLens[i])
				}
			}
			// Concatenating all chunks must reproduce the input exactly.
			if got := strings.Join(chunks, ""); got != tt.text {
				t.Errorf("concatenated chunks differ from input")
			}
		})
	}
}

func TestSplitPageMultibyte(t *testing.T) {
	// Chunk boundaries are counted in runes, never split a UTF-8 sequence.
	text := strings.Repeat("文", 7)
	chunks := SplitPage(text, 3)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if strings.Join(chunks, "") != text {
		t.Errorf("concatenated chunks differ from input")
	}
	for i, c := range chunks[:2] {
		if n := len([]rune(c)); n != 3 {
			t.Errorf("chunk %d has %d runes, want 3", i, n)
		}
	}
}

func TestSplitPageInvalidChunkSize(t *testing.T) {
	if got := SplitPage("abc", 0); got != nil {
		t.Errorf("SplitPage with chunk size 0 = %v, want nil", got)
	}
}

func TestExtractTwoPagePDF(t *testing.T) {
	pageZero := strings.Repeat("a", 1500)
	pageOne := strings.Repeat("b", 400)
	data := buildPDF([]string{pageZero, pageOne})

	var chunks []Chunk
	err := Extract(data, 1000, func(c Chunk) error {
		chunks = append(chunks, c)
		return nil
	})
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}

	want := []Chunk{
		{Text: pageZero[:1000], Page: 0},
		{Text: pageZero[1000:], Page: 0},
		{Text: pageOne, Page: 1},
	}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d", len(chunks), len(want))
	}
	for i, c := range chunks {
		if c.Page != want[i].Page {
			t.Errorf("chunk %d on page %d, want %d", i, c.Page, want[i].Page)
		}
		if c.Text != want[i].Text {
			t.Errorf("chunk %d text has length %d, want %d", i, len(c.Text), len(want[i].Text))
		}
	}
}

func TestExtractYieldErrorStopsExtraction(t *testing.T) {
	data := buildPDF([]string{strings.Repeat("a", 1500)})
	sentinel := errors.New("stop")

	calls := 0
	err := Extract(data, 1000, func(Chunk) error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Extract() = %v, want yield error", err)
	}
	if calls != 1 {
		t.Errorf("yield called %d times after error, want 1", calls)
	}
}

func TestExtractMalformedPDF(t *testing.T) {
	// Point temp file creation at an inspectable directory.
	tmpDir := t.TempDir()
	t.Setenv("TMPDIR", tmpDir)

	err := Extract([]byte("this is not a pdf"), 1000, func(Chunk) error {
		t.Fatal("yield must not be called for malformed input")
		return nil
	})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Extract() = %v, want ErrDecode", err)
	}

	// The temporary decoded copy must be gone even though extraction failed.
	entries, readErr := os.ReadDir(tmpDir)
	if readErr != nil {
		t.Fatalf("ReadDir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Errorf("temp artifacts left behind: %v", entries)
	}
}

func TestExtractRejectsNonPositiveChunkSize(t *testing.T) {
	err := Extract([]byte("%PDF-1.4"), 0, func(Chunk) error { return nil })
	if err == nil {
		t.Fatal("expected error for chunk size 0")
	}
}
