// Copyright 2026 The rawfile Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package rawfile is a read-only decoder for a vendor mass-spectrometry
// binary format (versions 57-66). It exposes scans, chromatograms and
// per-scan metadata without depending on the vendor's runtime.
package rawfile

// FileMagic is the two-byte signature at offset 0 of every supported file.
const FileMagic = 0xA101

// FinniganSignatureOffset and FinniganSignatureLength locate the fixed
// UTF-16LE vendor signature following the magic word.
const (
	FinniganSignatureOffset = 2
	FinniganSignatureLength = 36
	VersionOffset           = 54
)

// MinSupportedVersion and MaxSupportedVersion bound the inclusive range of
// file-format versions this decoder understands.
const (
	MinSupportedVersion = 57
	MaxSupportedVersion = 66
)

// IsSupportedVersion reports whether v is a version this decoder handles.
func IsSupportedVersion(v uint32) bool {
	return v >= MinSupportedVersion && v <= MaxSupportedVersion
}

// Uses64BitAddresses reports whether v stores stream offsets as 64-bit
// fields natively rather than promoting them from 32-bit storage.
func Uses64BitAddresses(v uint32) bool { return v >= 64 }

// HasCycleAndDataSize reports whether the scan index entry for v carries
// a cycle number and an explicit data-size field.
func HasCycleAndDataSize(v uint32) bool { return v >= 65 }

// HasIsolationWidthOffset reports whether a Reaction for v carries the
// isolation-width-offset field.
func HasIsolationWidthOffset(v uint32) bool { return v >= 66 }

// Polarity is the detector polarity of a scan.
type Polarity int32

// Polarity values, fixed across languages per the wire contract.
const (
	PolarityNegative Polarity = 0
	PolarityPositive Polarity = 1
	PolarityUnknown  Polarity = 2
)

// MassAnalyzer identifies the instrument's mass analyzer technology.
type MassAnalyzer int32

// Mass analyzer values, fixed across languages per the wire contract.
const (
	AnalyzerITMS MassAnalyzer = 0
	AnalyzerTQMS MassAnalyzer = 1
	AnalyzerSQMS MassAnalyzer = 2
	AnalyzerTOFMS MassAnalyzer = 3
	AnalyzerFTMS MassAnalyzer = 4
	AnalyzerSector MassAnalyzer = 5
	AnalyzerAny MassAnalyzer = 6
	AnalyzerASTMS MassAnalyzer = 7
)

// ActivationType identifies the fragmentation method used for a reaction.
type ActivationType int32

// Activation type values, fixed across languages per the wire contract.
// 12 (EID) and 13 (ElectronEnergy) follow the v8.0.6 mapping; see
// DESIGN.md for the documented open question about older archives that
// used ETHCD/ETCID at these same numeric positions.
const (
	ActivationCID           ActivationType = 0
	ActivationMPD           ActivationType = 1
	ActivationECD           ActivationType = 2
	ActivationPQD           ActivationType = 3
	ActivationETD           ActivationType = 4
	ActivationHCD           ActivationType = 5
	ActivationAny           ActivationType = 6
	ActivationSA            ActivationType = 7
	ActivationPTR           ActivationType = 8
	ActivationNETD          ActivationType = 9
	ActivationNPTR          ActivationType = 10
	ActivationUVPD          ActivationType = 11
	ActivationEID           ActivationType = 12
	ActivationElectronEnergy ActivationType = 13
)

// PacketType is the low 16 bits of a scan index entry's packet-type word;
// it selects one of the 26 on-disk spectral-data encodings.
type PacketType uint16

// Packet type dispatch classes. Within the legacy bounds only 0-5 and
// 14-17 are decoded; 4, 6, 7, 22 and 23 are recognized but unimplemented
// (compressed families with no decompressor in the reference format),
// and every other value has no decoder.
const (
	PacketLegacyMin  PacketType = 0
	PacketLegacyMax  PacketType = 17
	PacketModernFTLTMin PacketType = 18
	PacketModernFTLTMax PacketType = 21
)

var unimplementedPacketTypes = map[PacketType]bool{
	4: true, 6: true, 7: true, 22: true, 23: true,
}

// IsUnimplementedPacketType reports whether t is a recognized-but-not-
// decoded packet family (compressed accurate spectrum, MAT95 compressed).
func IsUnimplementedPacketType(t PacketType) bool {
	return unimplementedPacketTypes[t]
}
