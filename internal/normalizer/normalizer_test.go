package normalizer

import (
	"errors"
	"testing"

	"github.com/ginjaninja78/csv-to-inventory/internal/types"
)

func row(pairs ...string) types.RawRow {
	var r types.RawRow
	for i := 0; i+1 < len(pairs); i += 2 {
		r = append(r, types.Field{Name: pairs[i], Value: pairs[i+1]})
	}
	return r
}

func TestNormalize_AliasResolution(t *testing.T) {
	tests := []struct {
		name string
		row  types.RawRow
		want types.ServerRecord
	}{
		{
			name: "primary names",
			row:  row("ip", "10.0.0.1", "address", "0xA", "private_key", "k1"),
			want: types.ServerRecord{IP: "10.0.0.1", Address: "0xA", PrivateKey: "k1", SourceRow: 2},
		},
		{
			name: "wallet and priv_key aliases",
			row:  row("ip", "10.0.0.5", "wallet_address", "0xABC", "priv_key", "secret123"),
			want: types.ServerRecord{IP: "10.0.0.5", Address: "0xABC", PrivateKey: "secret123", SourceRow: 2},
		},
		{
			name: "case and whitespace insensitive names",
			row:  row("  Ip_Address ", " 10.0.0.2 ", "Eth_Address", " 0xB ", " key", "k2 "),
			want: types.ServerRecord{IP: "10.0.0.2", Address: "0xB", PrivateKey: "k2", SourceRow: 2},
		},
		{
			name: "IP beats IP_ADDRESS",
			row:  row("IP_ADDRESS", "10.0.0.9", "IP", "10.0.0.3"),
			want: types.ServerRecord{IP: "10.0.0.3", SourceRow: 2},
		},
		{
			name: "empty HOST with SERVER_IP present",
			row:  row("HOST", "", "ADDRESS", "0xC", "SERVER_IP", "10.0.0.4"),
			want: types.ServerRecord{IP: "10.0.0.4", Address: "0xC", SourceRow: 2},
		},
		{
			name: "present but empty alias falls through",
			row:  row("IP", "", "HOST", "node.example"),
			want: types.ServerRecord{IP: "node.example", SourceRow: 2},
		},
		{
			name: "address priority",
			row:  row("WALLET_ADDRESS", "0xW", "ETHEREUM_ADDRESS", "0xE", "IP", "1.1.1.1"),
			want: types.ServerRecord{IP: "1.1.1.1", Address: "0xE", SourceRow: 2},
		},
		{
			name: "duplicate normalized names last wins",
			row:  row("ip", "10.0.0.1", "IP ", "10.0.0.2"),
			want: types.ServerRecord{IP: "10.0.0.2", SourceRow: 2},
		},
		{
			name: "unknown columns ignored",
			row:  row("name", "alpha", "ip", "10.0.0.7", "region", "eu"),
			want: types.ServerRecord{IP: "10.0.0.7", SourceRow: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.row, 2)
			if err != nil {
				t.Fatalf("Normalize error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Normalize = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalize_RejectsMissingIP(t *testing.T) {
	tests := []struct {
		name string
		row  types.RawRow
	}{
		{"no ip columns", row("address", "0xA", "key", "k")},
		{"all ip aliases empty", row("IP", " ", "IP_ADDRESS", "", "SERVER_IP", "", "HOST", "")},
		{"empty row", types.RawRow{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.row, 7)
			var rej *RejectionError
			if !errors.As(err, &rej) {
				t.Fatalf("expected *RejectionError, got %v", err)
			}
			if rej.Row != 7 {
				t.Errorf("Row = %d, want 7", rej.Row)
			}
			if rej.Error() != "IP address missing at row 7" {
				t.Errorf("reason = %q", rej.Error())
			}
		})
	}
}

func TestNormalize_RowsIndependent(t *testing.T) {
	rows := []types.RawRow{
		row("ip", "10.0.0.1"),
		row("ip", ""),
		row("ip", "10.0.0.3"),
	}

	var accepted []string
	for i, r := range rows {
		rec, err := Normalize(r, i+2)
		if err != nil {
			continue
		}
		accepted = append(accepted, rec.IP)
	}

	if len(accepted) != 2 || accepted[0] != "10.0.0.1" || accepted[1] != "10.0.0.3" {
		t.Errorf("accepted = %v", accepted)
	}
}

func TestResolve(t *testing.T) {
	r := row("Wallet_Address", "0xW", "ip", "10.0.0.1")

	if got := Resolve(r, FieldAddress); got != "0xW" {
		t.Errorf("Resolve(address) = %q", got)
	}
	if got := Resolve(r, FieldPrivateKey); got != "" {
		t.Errorf("Resolve(private_key) = %q, want empty", got)
	}
}

func TestAliasesReturnsCopy(t *testing.T) {
	a := Aliases(FieldIP)
	a[0] = "MUTATED"

	if Aliases(FieldIP)[0] != "IP" {
		t.Error("Aliases leaked the internal table")
	}
}

func TestFieldString(t *testing.T) {
	if FieldIP.String() != "ip" || FieldAddress.String() != "address" || FieldPrivateKey.String() != "private_key" {
		t.Error("unexpected field names")
	}
}
