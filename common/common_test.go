package common

import (
	"reflect"
	"testing"
)

type holdParams struct {
	BibId          int    `json:"biblionumber"`
	PickupLocation string `json:"pickup_library_id,omitempty"`
	Note           string
}

func TestStructToMap(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    map[string]interface{}
		wantErr bool
	}{
		{
			name:  "Struct with json tags",
			input: holdParams{BibId: 42, PickupLocation: "MAIN", Note: "aisle copy"},
			want: map[string]interface{}{
				"biblionumber":      42,
				"pickup_library_id": "MAIN",
				"Note":              "aisle copy",
			},
			wantErr: false,
		},
		{
			name:  "Pointer to struct",
			input: &holdParams{BibId: 7},
			want: map[string]interface{}{
				"biblionumber":      7,
				"pickup_library_id": "",
				"Note":              "",
			},
			wantErr: false,
		},
		{
			name:    "Error on non-struct (int)",
			input:   42,
			want:    nil,
			wantErr: true,
		},
		{
			name:    "Error on non-struct (slice)",
			input:   []string{"a", "b"},
			want:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StructToMap(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("StructToMap() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("StructToMap() got = %v, want %v", got, tt.want)
			}
		})
	}
}
