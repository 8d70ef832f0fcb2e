package catalog

import "github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"

// defaultDescriptors lists the tool functions in the order of their identifiers.
// Index 17 (XYZ) and 42 are not exposed.
var defaultDescriptors = []common.MetricDescriptor{
	{Name: "Soma_Surface", Index: 0, Type: common.Real, Unit: "um**2"},
	{Name: "N_stems", Index: 1, Type: common.Integer, Unit: ""},
	{Name: "N_bifs", Index: 2, Type: common.Integer, Unit: ""},
	{Name: "N_branch", Index: 3, Type: common.Integer, Unit: ""},
	{Name: "N_tips", Index: 4, Type: common.Integer, Unit: ""},
	{Name: "Width", Index: 5, Type: common.Real, Unit: "um"},
	{Name: "Height", Index: 6, Type: common.Real, Unit: "um"},
	{Name: "Depth", Index: 7, Type: common.Real, Unit: "um"},
	{Name: "Type", Index: 8, Type: common.Integer, Unit: ""},
	{Name: "Diameter", Index: 9, Type: common.Real, Unit: "um"},
	{Name: "Diameter_pow", Index: 10, Type: common.Real, Unit: "um"},
	{Name: "Length", Index: 11, Type: common.Real, Unit: "um"},
	{Name: "Surface", Index: 12, Type: common.Real, Unit: "um**2"},
	{Name: "SectionArea", Index: 13, Type: common.Real, Unit: "um**2"},
	{Name: "Volume", Index: 14, Type: common.Real, Unit: "um**3"},
	{Name: "EucDistance", Index: 15, Type: common.Real, Unit: "um"},
	{Name: "PathDistance", Index: 16, Type: common.Real, Unit: "um"},
	{Name: "Branch_Order", Index: 18, Type: common.Integer, Unit: ""},
	{Name: "Terminal_degree", Index: 19, Type: common.Integer, Unit: ""},
	{Name: "TerminalSegment", Index: 20, Type: common.Integer, Unit: ""},
	{Name: "Taper_1", Index: 21, Type: common.Real, Unit: ""},
	{Name: "Taper_2", Index: 22, Type: common.Real, Unit: ""},
	{Name: "Branch_pathlength", Index: 23, Type: common.Real, Unit: "um"},
	{Name: "Contraction", Index: 24, Type: common.Real, Unit: ""},
	{Name: "Fragmentation", Index: 25, Type: common.Real, Unit: ""},
	{Name: "Daughter_Ratio", Index: 26, Type: common.Real, Unit: ""},
	{Name: "Parent_Daughter_Ratio", Index: 27, Type: common.Real, Unit: ""},
	{Name: "Partition_asymmetry", Index: 28, Type: common.Real, Unit: ""},
	{Name: "Rall_Power", Index: 29, Type: common.Real, Unit: ""},
	{Name: "Pk", Index: 30, Type: common.Real, Unit: ""},
	{Name: "Pk_classic", Index: 31, Type: common.Real, Unit: ""},
	{Name: "Pk_2", Index: 32, Type: common.Real, Unit: ""},
	{Name: "Bif_ampl_local", Index: 33, Type: common.Real, Unit: "deg"},
	{Name: "Bif_ampl_remote", Index: 34, Type: common.Real, Unit: "deg"},
	{Name: "Bif_tilt_local", Index: 35, Type: common.Real, Unit: "deg"},
	{Name: "Bif_tilt_remote", Index: 36, Type: common.Real, Unit: "deg"},
	{Name: "Bif_torque_local", Index: 37, Type: common.Real, Unit: "deg"},
	{Name: "Bif_torque_remote", Index: 38, Type: common.Real, Unit: "deg"},
	{Name: "Last_parent_diam", Index: 39, Type: common.Real, Unit: "um"},
	{Name: "Diam_threshold", Index: 40, Type: common.Real, Unit: "um"},
	{Name: "HillmanThreshold", Index: 41, Type: common.Real, Unit: "um"},
	{Name: "Helix", Index: 43, Type: common.Real, Unit: "um"},
	{Name: "Fractal_Dim", Index: 44, Type: common.Real, Unit: ""},
}

// Default returns the built-in catalog
func Default() *catalog {
	c, err := NewCatalog(defaultDescriptors)
	if err != nil {
		panic("invalid built-in metric catalog: " + err.Error())
	}

	return c
}
