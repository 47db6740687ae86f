package compat

// eSIM-capable models by brand. Only models that support eSIM are listed,
// so every pair reachable through the wizard is compatible.
var models = map[string][]string{
	"Apple": {
		"iPhone XS", "iPhone XS Max", "iPhone XR",
		"iPhone 11", "iPhone 11 Pro", "iPhone 11 Pro Max",
		"iPhone SE (2020)", "iPhone SE (2022)",
		"iPhone 12", "iPhone 12 mini", "iPhone 12 Pro", "iPhone 12 Pro Max",
		"iPhone 13", "iPhone 13 mini", "iPhone 13 Pro", "iPhone 13 Pro Max",
		"iPhone 14", "iPhone 14 Plus", "iPhone 14 Pro", "iPhone 14 Pro Max",
		"iPhone 15", "iPhone 15 Plus", "iPhone 15 Pro", "iPhone 15 Pro Max",
		"iPhone 16", "iPhone 16 Plus", "iPhone 16 Pro", "iPhone 16 Pro Max",
	},
	"Samsung": {
		"Galaxy S20", "Galaxy S20+", "Galaxy S20 Ultra",
		"Galaxy S21", "Galaxy S21+", "Galaxy S21 Ultra",
		"Galaxy S22", "Galaxy S22+", "Galaxy S22 Ultra",
		"Galaxy S23", "Galaxy S23+", "Galaxy S23 Ultra",
		"Galaxy S24", "Galaxy S24+", "Galaxy S24 Ultra",
		"Galaxy Z Flip", "Galaxy Z Flip3", "Galaxy Z Flip4", "Galaxy Z Flip5",
		"Galaxy Z Fold2", "Galaxy Z Fold3", "Galaxy Z Fold4", "Galaxy Z Fold5",
		"Galaxy Note 20", "Galaxy Note 20 Ultra",
	},
	"Google": {
		"Pixel 3", "Pixel 3 XL", "Pixel 3a", "Pixel 4", "Pixel 4a", "Pixel 5",
		"Pixel 6", "Pixel 6 Pro", "Pixel 7", "Pixel 7 Pro", "Pixel 8", "Pixel 8 Pro", "Pixel 9",
	},
	"Huawei": {"P40", "P40 Pro", "Mate 40 Pro"},
	"Xiaomi": {"12T Pro", "13", "13 Lite", "13 Pro", "14"},
	"Motorola": {"Razr 2019", "Razr 5G", "Edge 40", "Edge+"},
	"Oppo": {"Find X3 Pro", "Find X5", "Find X5 Pro", "Reno 5A"},
}

// Brand display order.
var brands = []string{"Apple", "Samsung", "Google", "Huawei", "Xiaomi", "Motorola", "Oppo"}
