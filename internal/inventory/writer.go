// =============================================================================
// CSV to Inventory Converter - Inventory Writer Module
// =============================================================================
//
// This module renders the two provisioning artifacts.
//
// INVENTORY STRUCTURE (INI-style Ansible inventory):
//
//   [aztec_nodes]
//   node1 ansible_host=10.0.0.5 ansible_ssh_user=ubuntu server_ip=10.0.0.5 eth_address_b64=MHhBQkM= validator_private_key_b64=c2VjcmV0MTIz
//   node2 ...
//
//   - Node identifiers follow the position in the accepted list, so rejected
//     source rows never leave gaps.
//   - Address and private key are base64 encoded. Ansible turns hex-looking
//     strings into numbers unless they are escaped; playbooks decode them
//     with the b64decode filter. Empty values encode to the empty string and
//     the key=value token is still written.
//
// VARS STRUCTURE:
//   A fixed YAML document of connection defaults, RPC endpoints and timeouts.
//   It never depends on the input rows.
//
// =============================================================================

package inventory

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/ginjaninja78/csv-to-inventory/internal/config"
	"github.com/ginjaninja78/csv-to-inventory/internal/types"
)

// =============================================================================
// RENDER OPTIONS
// =============================================================================

// Options controls inventory rendering.
type Options struct {
	// GroupName is the inventory group header (without brackets).
	// Default: "aztec_nodes"
	GroupName string

	// SSHUser is written as ansible_ssh_user on every host line.
	// Default: "ubuntu"
	SSHUser string
}

// DefaultOptions returns the default rendering options.
func DefaultOptions() Options {
	return Options{
		GroupName: "aztec_nodes",
		SSHUser:   "ubuntu",
	}
}

// OptionsFromConfig builds rendering options from the main configuration.
func OptionsFromConfig(cfg *config.MainConfig) Options {
	return Options{
		GroupName: cfg.GroupName,
		SSHUser:   cfg.SSHUser,
	}
}

// =============================================================================
// INVENTORY
// =============================================================================

// Encode applies the escaping used for secret-bearing inventory fields.
func Encode(value string) string {
	return base64.StdEncoding.EncodeToString([]byte(value))
}

// NodeID returns the inventory name of the record at 0-based position i.
func NodeID(i int) string {
	return fmt.Sprintf("node%d", i+1)
}

// RenderInventory renders the host inventory for the accepted records.
//
// PARAMETERS:
//   - records: The accepted server records, in processing order.
//   - opts: Group name and SSH user.
//
// RETURNS:
//   - The inventory file contents. Output depends only on the arguments.
func RenderInventory(records []types.ServerRecord, opts Options) []byte {
	if opts.GroupName == "" {
		opts.GroupName = DefaultOptions().GroupName
	}
	if opts.SSHUser == "" {
		opts.SSHUser = DefaultOptions().SSHUser
	}

	var buffer bytes.Buffer
	buffer.WriteString("[" + opts.GroupName + "]\n")

	for i, server := range records {
		fmt.Fprintf(&buffer,
			"%s ansible_host=%s ansible_ssh_user=%s server_ip=%s eth_address_b64=%s validator_private_key_b64=%s\n",
			NodeID(i),
			server.IP,
			opts.SSHUser,
			server.IP,
			Encode(server.Address),
			Encode(server.PrivateKey),
		)
	}

	return buffer.Bytes()
}

// =============================================================================
// VARS
// =============================================================================

// plainScalar matches values that are safe as unquoted YAML scalars.
var plainScalar = regexp.MustCompile(`^[A-Za-z0-9_./][A-Za-z0-9_./-]*$`)

// quote renders a single-quoted YAML scalar.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// plainOrQuote leaves simple identifiers and paths unquoted.
func plainOrQuote(s string) string {
	if plainScalar.MatchString(s) {
		return s
	}
	return quote(s)
}

// RenderVars renders the shared variables file.
func RenderVars(v config.VarsSettings) []byte {
	var buffer bytes.Buffer

	buffer.WriteString("---\n")
	buffer.WriteString("# Ansible connection settings\n")
	fmt.Fprintf(&buffer, "ansible_ssh_user: %s\n", plainOrQuote(v.SSHUser))
	fmt.Fprintf(&buffer, "ansible_python_interpreter: %s\n", plainOrQuote(v.PythonInterpreter))
	fmt.Fprintf(&buffer, "ansible_ssh_common_args: %s\n", quote(v.SSHCommonArgs))
	buffer.WriteString("\n")
	buffer.WriteString("# Common L1 RPC settings for all servers\n")
	fmt.Fprintf(&buffer, "l1_rpc_url: %s\n", quote(v.L1RPCURL))
	fmt.Fprintf(&buffer, "l1_consensus_url: %s\n", quote(v.L1ConsensusURL))
	buffer.WriteString("\n")
	buffer.WriteString("# Timeouts and retries\n")
	fmt.Fprintf(&buffer, "ansible_timeout: %d\n", v.AnsibleTimeout)
	fmt.Fprintf(&buffer, "install_timeout: %d\n", v.InstallTimeout)

	return buffer.Bytes()
}
