// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package datatype

import "strings"

// AssetType classifies the kind of stored asset a parameter refers to.
type AssetType string

const (
	AssetFlow             AssetType = "FLOW"
	AssetTable            AssetType = "TABLE"
	AssetTableStats       AssetType = "TABLE_STATS"
	AssetModel            AssetType = "MODEL"
	AssetPrediction       AssetType = "PREDICTION"
	AssetReplay           AssetType = "REPLAY"
	AssetDashboard        AssetType = "DASHBOARD"
	AssetAlbum            AssetType = "ALBUM"
	AssetCVModel          AssetType = "CV_MODEL"
	AssetCVPrediction     AssetType = "CV_PREDICTION"
	AssetOptimization     AssetType = "OPTIMIZATION"
	AssetDIAA             AssetType = "DIAA"
	AssetOnlineJob        AssetType = "ONLINE_JOB"
	AssetOnlineAPI        AssetType = "ONLINE_API"
	AssetProject          AssetType = "S9_PROJECT"
	AssetPipeline         AssetType = "PIPELINE"
	AssetExperiment       AssetType = "EXPERIMENT"
	AssetDataset          AssetType = "DATASET"
	AssetScriptDeployment AssetType = "SCRIPT_DEPLOYMENT"
)

var assetTypes = []AssetType{
	AssetFlow, AssetTable, AssetTableStats, AssetModel, AssetPrediction,
	AssetReplay, AssetDashboard, AssetAlbum, AssetCVModel, AssetCVPrediction,
	AssetOptimization, AssetDIAA, AssetOnlineJob, AssetOnlineAPI, AssetProject,
	AssetPipeline, AssetExperiment, AssetDataset, AssetScriptDeployment,
}

// Valid reports whether a is a known asset type.
func (a AssetType) Valid() bool {
	for _, known := range assetTypes {
		if a == known {
			return true
		}
	}
	return false
}

// ParseAssetType resolves a case-insensitive asset type name.
func ParseAssetType(s string) (AssetType, bool) {
	a := AssetType(strings.ToUpper(strings.TrimSpace(s)))
	return a, a.Valid()
}
