// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

// Package features turns observations into the fixed, ordered feature vector
// consumed by the classifier ensemble.
//
// The schema follows the 41 connection features of the KDD'99 / NSL-KDD
// family the classifiers are trained on. Three of them are categorical
// (protocol_type, service, flag) and are encoded through a fixed vocabulary
// table: value i of a vocabulary encodes as i+1, anything not in the
// vocabulary encodes as 0. The table is built once and never changes at
// runtime, so the same observation always yields the same vector.
package features

// Names of the categorical and derived fields.
const (
	FieldProtocolType = "protocol_type"
	FieldService      = "service"
	FieldFlag         = "flag"
	FieldSrcBytes     = "src_bytes"
	FieldLand         = "land"
	FieldLoggedIn     = "logged_in"
)

// Schema is the ordered feature list.
var Schema = []string{
	"duration",
	FieldProtocolType,
	FieldService,
	FieldFlag,
	FieldSrcBytes,
	"dst_bytes",
	FieldLand,
	"wrong_fragment",
	"urgent",
	"hot",
	"num_failed_logins",
	FieldLoggedIn,
	"num_compromised",
	"root_shell",
	"su_attempted",
	"num_root",
	"num_file_creations",
	"num_shells",
	"num_access_files",
	"num_outbound_cmds",
	"is_host_login",
	"is_guest_login",
	"count",
	"srv_count",
	"serror_rate",
	"srv_serror_rate",
	"rerror_rate",
	"srv_rerror_rate",
	"same_srv_rate",
	"diff_srv_rate",
	"srv_diff_host_rate",
	"dst_host_count",
	"dst_host_srv_count",
	"dst_host_same_srv_rate",
	"dst_host_diff_srv_rate",
	"dst_host_same_src_port_rate",
	"dst_host_srv_diff_host_rate",
	"dst_host_serror_rate",
	"dst_host_srv_serror_rate",
	"dst_host_rerror_rate",
	"dst_host_srv_rerror_rate",
}

// Vocabularies of the categorical fields, in encoding order.
var (
	Protocols = []string{"tcp", "udp", "icmp"}

	Services = []string{
		"http", "http_ssl", "ssh", "ftp", "ftp_data", "smtp", "telnet",
		"domain", "domain_u", "private", "ecr_i", "eco_i", "urp_i",
		"pop_3", "imap4", "finger", "auth", "ntp_u", "tftp_u", "irc",
		"X11", "other",
	}

	Flags = []string{"SF", "S0", "S1", "S2", "S3", "REJ", "RSTO", "RSTR", "RSTOS0", "SH", "OTH"}
)
