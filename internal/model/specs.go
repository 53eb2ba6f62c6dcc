package model

import "fmt"

// Specs is the category-specific attribute set of a device. Each category
// has exactly one variant; the variant is selected from the record's
// Category tag, never inferred from which fields happen to be populated.
type Specs interface {
	Category() Category
}

// PhoneSpecs holds phone attributes
type PhoneSpecs struct {
	ChipName           *string `spec:"chip_name" json:"chip_name,omitempty" yaml:"chip_name,omitempty"`
	RAMGB              Value   `spec:"ram_gb" json:"ram_gb,omitzero" yaml:"ram_gb,omitempty"`
	BaseStorageGB      Value   `spec:"base_storage_gb" json:"base_storage_gb,omitzero" yaml:"base_storage_gb,omitempty"`
	GeekbenchMulti     Value   `spec:"geekbench_multi" json:"geekbench_multi,omitzero" yaml:"geekbench_multi,omitempty"`
	DisplaySizeInches  Value   `spec:"display_size_inches" json:"display_size_inches,omitzero" yaml:"display_size_inches,omitempty"`
	RefreshRateHz      Value   `spec:"refresh_rate_hz" json:"refresh_rate_hz,omitzero" yaml:"refresh_rate_hz,omitempty"`
	PeakBrightnessNits Value   `spec:"peak_brightness_nits" json:"peak_brightness_nits,omitzero" yaml:"peak_brightness_nits,omitempty"`
	MainCameraMP       Value   `spec:"main_camera_mp" json:"main_camera_mp,omitzero" yaml:"main_camera_mp,omitempty"`
	UltrawideMP        Value   `spec:"ultrawide_mp" json:"ultrawide_mp,omitzero" yaml:"ultrawide_mp,omitempty"`
	OpticalZoom        Value   `spec:"optical_zoom" json:"optical_zoom,omitzero" yaml:"optical_zoom,omitempty"`
	BatteryMAh         Value   `spec:"battery_mah" json:"battery_mah,omitzero" yaml:"battery_mah,omitempty"`
	WiredChargingW     Value   `spec:"wired_charging_w" json:"wired_charging_w,omitzero" yaml:"wired_charging_w,omitempty"`
	WeightGrams        Value   `spec:"weight_grams" json:"weight_grams,omitzero" yaml:"weight_grams,omitempty"`
	HeightMM           Value   `spec:"height_mm" json:"height_mm,omitzero" yaml:"height_mm,omitempty"`
	WidthMM            Value   `spec:"width_mm" json:"width_mm,omitzero" yaml:"width_mm,omitempty"`
	DepthMM            Value   `spec:"depth_mm" json:"depth_mm,omitzero" yaml:"depth_mm,omitempty"`
	PortType           *string `spec:"port_type" json:"port_type,omitempty" yaml:"port_type,omitempty"`
	FiveGSupport       *string `spec:"five_g_support" json:"five_g_support,omitempty" yaml:"five_g_support,omitempty"`
	AlwaysOnDisplay    *string `spec:"always_on_display" json:"always_on_display,omitempty" yaml:"always_on_display,omitempty"`
	AppleIntelligence  *string `spec:"apple_intelligence" json:"apple_intelligence,omitempty" yaml:"apple_intelligence,omitempty"`
}

func (*PhoneSpecs) Category() Category { return CategoryPhone }

// TabletSpecs holds tablet attributes
type TabletSpecs struct {
	ChipName           *string `spec:"chip_name" json:"chip_name,omitempty" yaml:"chip_name,omitempty"`
	RAMGB              Value   `spec:"ram_gb" json:"ram_gb,omitzero" yaml:"ram_gb,omitempty"`
	BaseStorageGB      Value   `spec:"base_storage_gb" json:"base_storage_gb,omitzero" yaml:"base_storage_gb,omitempty"`
	GeekbenchMulti     Value   `spec:"geekbench_multi" json:"geekbench_multi,omitzero" yaml:"geekbench_multi,omitempty"`
	DisplaySizeInches  Value   `spec:"display_size_inches" json:"display_size_inches,omitzero" yaml:"display_size_inches,omitempty"`
	RefreshRateHz      Value   `spec:"refresh_rate_hz" json:"refresh_rate_hz,omitzero" yaml:"refresh_rate_hz,omitempty"`
	PeakBrightnessNits Value   `spec:"peak_brightness_nits" json:"peak_brightness_nits,omitzero" yaml:"peak_brightness_nits,omitempty"`
	MainCameraMP       Value   `spec:"main_camera_mp" json:"main_camera_mp,omitzero" yaml:"main_camera_mp,omitempty"`
	BatteryHours       Value   `spec:"battery_hours" json:"battery_hours,omitzero" yaml:"battery_hours,omitempty"`
	WeightGrams        Value   `spec:"weight_grams" json:"weight_grams,omitzero" yaml:"weight_grams,omitempty"`
	PortType           *string `spec:"port_type" json:"port_type,omitempty" yaml:"port_type,omitempty"`
	FiveGSupport       *string `spec:"five_g_support" json:"five_g_support,omitempty" yaml:"five_g_support,omitempty"`
	PencilSupport      *string `spec:"pencil_support" json:"pencil_support,omitempty" yaml:"pencil_support,omitempty"`
	AppleIntelligence  *string `spec:"apple_intelligence" json:"apple_intelligence,omitempty" yaml:"apple_intelligence,omitempty"`
}

func (*TabletSpecs) Category() Category { return CategoryTablet }

// LaptopSpecs holds laptop and desktop-class attributes
type LaptopSpecs struct {
	ChipName           *string `spec:"chip_name" json:"chip_name,omitempty" yaml:"chip_name,omitempty"`
	RAMGB              Value   `spec:"ram_gb" json:"ram_gb,omitzero" yaml:"ram_gb,omitempty"`
	BaseStorageGB      Value   `spec:"base_storage_gb" json:"base_storage_gb,omitzero" yaml:"base_storage_gb,omitempty"`
	GeekbenchMulti     Value   `spec:"geekbench_multi" json:"geekbench_multi,omitzero" yaml:"geekbench_multi,omitempty"`
	ScreenSize         Value   `spec:"screen_size" json:"screen_size,omitzero" yaml:"screen_size,omitempty"`
	RefreshRateHz      Value   `spec:"refresh_rate_hz" json:"refresh_rate_hz,omitzero" yaml:"refresh_rate_hz,omitempty"`
	PeakBrightnessNits Value   `spec:"peak_brightness_nits" json:"peak_brightness_nits,omitzero" yaml:"peak_brightness_nits,omitempty"`
	BatteryHours       Value   `spec:"battery_hours" json:"battery_hours,omitzero" yaml:"battery_hours,omitempty"`
	WeightGrams        Value   `spec:"weight_grams" json:"weight_grams,omitzero" yaml:"weight_grams,omitempty"`
	PortType           *string `spec:"port_type" json:"port_type,omitempty" yaml:"port_type,omitempty"`
	AppleIntelligence  *string `spec:"apple_intelligence" json:"apple_intelligence,omitempty" yaml:"apple_intelligence,omitempty"`
}

func (*LaptopSpecs) Category() Category { return CategoryLaptop }

// WatchSpecs holds watch attributes
type WatchSpecs struct {
	ChipName           *string `spec:"chip_name" json:"chip_name,omitempty" yaml:"chip_name,omitempty"`
	CaseSizeMM         Value   `spec:"case_size_mm" json:"case_size_mm,omitzero" yaml:"case_size_mm,omitempty"`
	PeakBrightnessNits Value   `spec:"peak_brightness_nits" json:"peak_brightness_nits,omitzero" yaml:"peak_brightness_nits,omitempty"`
	BatteryHours       Value   `spec:"battery_hours" json:"battery_hours,omitzero" yaml:"battery_hours,omitempty"`
	WaterResistanceM   Value   `spec:"water_resistance_m" json:"water_resistance_m,omitzero" yaml:"water_resistance_m,omitempty"`
	WeightGrams        Value   `spec:"weight_grams" json:"weight_grams,omitzero" yaml:"weight_grams,omitempty"`
	AlwaysOnDisplay    *string `spec:"always_on_display" json:"always_on_display,omitempty" yaml:"always_on_display,omitempty"`
	FiveGSupport       *string `spec:"five_g_support" json:"five_g_support,omitempty" yaml:"five_g_support,omitempty"`
}

func (*WatchSpecs) Category() Category { return CategoryWatch }

// AccessorySpecs holds attributes shared by spatial, audio, home and other accessories
type AccessorySpecs struct {
	Type           AccessoryType `spec:"type" json:"type,omitempty" yaml:"type,omitempty"`
	ChipName       *string       `spec:"chip_name" json:"chip_name,omitempty" yaml:"chip_name,omitempty"`
	BatteryHours   Value         `spec:"battery_hours" json:"battery_hours,omitzero" yaml:"battery_hours,omitempty"`
	WeightGrams    Value         `spec:"weight_grams" json:"weight_grams,omitzero" yaml:"weight_grams,omitempty"`
	ConnectionType *string       `spec:"connection_type" json:"connection_type,omitempty" yaml:"connection_type,omitempty"`
	PortType       *string       `spec:"port_type" json:"port_type,omitempty" yaml:"port_type,omitempty"`
}

func (*AccessorySpecs) Category() Category { return CategoryAccessory }

// NewSpecs returns an empty variant for the category
func NewSpecs(c Category) (Specs, error) {
	switch c {
	case CategoryPhone:
		return &PhoneSpecs{}, nil
	case CategoryTablet:
		return &TabletSpecs{}, nil
	case CategoryLaptop:
		return &LaptopSpecs{}, nil
	case CategoryWatch:
		return &WatchSpecs{}, nil
	case CategoryAccessory:
		return &AccessorySpecs{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
	}
}
