package csv

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{
			name:  "simple rows",
			input: "a,b\n1,2",
			want:  [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:  "trailing newline dropped",
			input: "a,b\n1,2\n",
			want:  [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:  "crlf line endings",
			input: "a,b\r\n1,2\r\n",
			want:  [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:  "blank lines skipped",
			input: "a\n\n\nb\n",
			want:  [][]string{{"a"}, {"b"}},
		},
		{
			name:  "quoted comma and newline",
			input: "\"x,y\",\"line1\nline2\"\n",
			want:  [][]string{{"x,y", "line1\nline2"}},
		},
		{
			name:  "doubled quote inside quotes",
			input: `"say ""hi""",z`,
			want:  [][]string{{`say "hi"`, "z"}},
		},
		{
			name:  "empty fields kept",
			input: "a,,c\n,,\n",
			want:  [][]string{{"a", "", "c"}, {"", "", ""}},
		},
		{
			name:  "unterminated quote tolerated",
			input: "a,\"open\nstill open",
			want:  [][]string{{"a", "open\nstill open"}},
		},
		{
			name:  "quote mid field toggles",
			input: `ab"c,d"e,f`,
			want:  [][]string{{"abc,de", "f"}},
		},
		{
			name:  "multibyte text",
			input: "問題ID,タイトル\nQ1,心電図",
			want:  [][]string{{"問題ID", "タイトル"}, {"Q1", "心電図"}},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a,b", `"a,b"`},
		{`say "hi"`, `"say ""hi"""`},
		{"two\nlines", "\"two\nlines\""},
		{"carriage\rreturn", "\"carriage\rreturn\""},
		{"", ""},
		{"tab\there", "tab\there"},
	}

	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSerialize(t *testing.T) {
	header := []string{"question_id", "title", "comment"}
	records := []map[string]string{
		{"question_id": "Q1", "title": "A, B", "comment": "ok"},
		{"question_id": "Q2", "title": `say "x"`},
	}

	got := Serialize(header, records)
	want := "question_id,title,comment\nQ1,\"A, B\",ok\nQ2,\"say \"\"x\"\"\","
	if got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"a,b,c\n1,2,3",
		"id,text\nQ1,\"multi\nline, with comma\"\nQ2,\"quote \"\"inside\"\"\"",
		"id,empty\nQ1,\nQ2,x",
		"一,二\n三,\"四,五\"",
		"id,text\nQ1,\"line1\rline2\"",
	}

	for _, in := range inputs {
		rows := Parse(in)
		out := SerializeRows(rows)
		if !reflect.DeepEqual(Parse(out), rows) {
			t.Errorf("round trip changed values:\n in=%q\nout=%q", in, out)
		}
		if out != in {
			t.Errorf("SerializeRows(Parse(%q)) = %q", in, out)
		}
	}
}

func TestParseTable_Records(t *testing.T) {
	table := ParseTable(" question_id , title ,comment\n Q1 ,  Heart  \nQ2,Lung,note,extra\n")

	wantHeader := []string{"question_id", "title", "comment"}
	if !reflect.DeepEqual(table.Header, wantHeader) {
		t.Fatalf("Header = %q, want %q", table.Header, wantHeader)
	}

	got := table.Records()
	want := []map[string]string{
		{"question_id": "Q1", "title": "Heart", "comment": ""},
		{"question_id": "Q2", "title": "Lung", "comment": "note"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Records() = %v, want %v", got, want)
	}
}

func TestParseTable_Empty(t *testing.T) {
	table := ParseTable("\n\r\n")
	if len(table.Header) != 0 || len(table.Rows) != 0 {
		t.Errorf("ParseTable(blank) = %+v, want empty", table)
	}
}
