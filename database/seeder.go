package database

import (
	"gorm.io/gorm"

	"github.com/Rish3666/uni-laundry-sync-sub000/models"
	"github.com/Rish3666/uni-laundry-sync-sub000/utils"
)

// Seed fills the catalog tables on first boot. Idempotent: an already
// seeded database is left alone.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	services := []models.ServiceType{
		{Name: "Wash"},
		{Name: "Wash & Iron"},
		{Name: "Dry Clean"},
	}
	for i := range services {
		if err := db.Create(&services[i]).Error; err != nil {
			return err
		}
	}

	type seedItem struct {
		name   string
		prices [3]float64 // wash, wash & iron, dry clean
	}
	catalog := map[string][]seedItem{
		"Tops": {
			{"T-Shirt", [3]float64{10, 15, 30}},
			{"Shirt", [3]float64{12, 18, 35}},
			{"Hoodie", [3]float64{20, 28, 50}},
		},
		"Bottoms": {
			{"Jeans", [3]float64{15, 22, 40}},
			{"Trousers", [3]float64{12, 18, 38}},
			{"Shorts", [3]float64{8, 12, 25}},
		},
		"Bedding": {
			{"Bedsheet", [3]float64{25, 35, 60}},
			{"Pillow Cover", [3]float64{8, 12, 20}},
			{"Blanket", [3]float64{40, 55, 90}},
		},
	}

	for categoryName, items := range catalog {
		category := models.Category{Name: categoryName}
		if err := db.Create(&category).Error; err != nil {
			return err
		}
		for _, si := range items {
			item := models.Item{CategoryID: category.ID, Name: si.name}
			if err := db.Create(&item).Error; err != nil {
				return err
			}
			for i, svc := range services {
				price := models.ItemPrice{
					ItemID:        item.ID,
					ServiceTypeID: svc.ID,
					Price:         si.prices[i],
				}
				if err := db.Create(&price).Error; err != nil {
					return err
				}
			}
		}
	}

	utils.InfoLogger.Println("Catalog seeded.")
	return nil
}
