package catalog

// DefaultMaterialID is the film new line items start with.
const DefaultMaterialID = "avery1105"

func defaultMaterials() []Material {
	return []Material{
		{ID: "avery1105", Name: "Avery MPI 1105", Rate: 2.10},
		{ID: "avery1005", Name: "Avery MPI 1005", Rate: 1.85},
		{ID: "3m2080", Name: "3M 2080", Rate: 2.50},
		{ID: "3mij180", Name: "3M IJ180", Rate: 2.30},
		{ID: "averysupreme", Name: "Avery Supreme", Rate: 2.75},
		{ID: "arlonslx", Name: "Arlon SLX", Rate: 2.20},
		{ID: "hexis", Name: "Hexis", Rate: 2.00},
	}
}

func defaultLaborRates() []LaborRate {
	return []LaborRate{
		{Name: "Small Car", Pay: 500, Hours: 14, Class: "Car"},
		{Name: "Med Car", Pay: 550, Hours: 16, Class: "Car"},
		{Name: "Full Car", Pay: 600, Hours: 17, Class: "Car"},
		{Name: "Sm Truck", Pay: 525, Hours: 15, Class: "Truck"},
		{Name: "Med Truck", Pay: 565, Hours: 16, Class: "Truck"},
		{Name: "Full Truck", Pay: 600, Hours: 17, Class: "Truck"},
		{Name: "Med Van", Pay: 525, Hours: 15, Class: "Van"},
		{Name: "Large Van", Pay: 600, Hours: 17, Class: "Van"},
		{Name: "XL Van", Pay: 625, Hours: 18, Class: "Van"},
	}
}

func defaultPPFPackages() []PPFPackage {
	return []PPFPackage{
		{ID: "standard_front", Name: "Standard Front", Description: "Bumper + partial hood + mirrors", Sale: 1200, MaterialCost: 380, LaborPay: 144, InstallHours: 5},
		{ID: "full_front", Name: "Full Front", Description: "Full bumper + hood + fenders + mirrors", Sale: 1850, MaterialCost: 580, LaborPay: 220, InstallHours: 7},
		{ID: "track_pack", Name: "Track Pack", Description: "Full front + A-pillars + rockers + door edges", Sale: 2800, MaterialCost: 900, LaborPay: 336, InstallHours: 10},
		{ID: "full_body", Name: "Full Body", Description: "Complete vehicle protection", Sale: 5500, MaterialCost: 1800, LaborPay: 660, InstallHours: 20},
		{ID: "hood_only", Name: "Hood Only", Description: "Full hood + partial fender blends", Sale: 650, MaterialCost: 200, LaborPay: 78, InstallHours: 3},
		{ID: "rocker_panels", Name: "Rocker Panels", Description: "Side rockers + door bottoms", Sale: 550, MaterialCost: 150, LaborPay: 66, InstallHours: 2.5},
		{ID: "headlights", Name: "Headlights", Description: "Both headlight assemblies", Sale: 350, MaterialCost: 80, LaborPay: 42, InstallHours: 1.5},
		{ID: "door_cups", Name: "Door Cup Guards", Description: "All 4 door handle packs", Sale: 150, MaterialCost: 40, LaborPay: 18, InstallHours: 0.5},
	}
}
