package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/ksaito/chocolatte-backend/config"
	"github.com/ksaito/chocolatte-backend/internal/app/model"
	"github.com/ksaito/chocolatte-backend/internal/app/repository"
	"github.com/ksaito/chocolatte-backend/internal/db"
	"github.com/ksaito/chocolatte-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// Seeds the ingredient catalogue. With no arguments the built-in
// catalogue is used; pass an XLSX file to import a custom one
// (columns: name, description, price, category, stock, image_url).
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	var products []model.Product
	if len(os.Args) > 1 {
		filePath := os.Args[1]
		fmt.Printf("Reading XLSX file: %s\n", filePath)
		products, err = readProductsFromXLSX(filePath)
		if err != nil {
			log.Fatal("Failed to read XLSX:", err)
		}
	} else {
		products = defaultCatalogue()
	}

	fmt.Printf("Total products to import: %d\n", len(products))
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	productRepo := repository.NewProductRepository(db.GetDB())
	for i := range products {
		if err := productRepo.Create(&products[i]); err != nil {
			log.Fatalf("Failed to create product %q: %v", products[i].Name, err)
		}
	}
	fmt.Printf("Imported %d products.\n", len(products))

	if err := seedAdminUser(); err != nil {
		log.Fatal("Failed to seed admin user:", err)
	}

	fmt.Println("Seeding completed successfully!")
}

// seedAdminUser creates an admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are set and the email is not taken yet.
func seedAdminUser() error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		fmt.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin user.")
		return nil
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	exists, err := userRepo.ExistsByEmail(email)
	if err != nil {
		return err
	}
	if exists {
		fmt.Printf("Admin user %s already exists, skipping.\n", email)
		return nil
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(admin); err != nil {
		return err
	}

	fmt.Printf("Admin user %s created.\n", email)
	return nil
}

func readProductsFromXLSX(filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("XLSX file has no data rows")
	}

	var products []model.Product
	// Row 0 is the header
	for i, row := range rows[1:] {
		if len(row) < 4 {
			fmt.Printf("Skipping row %d: expected at least 4 columns, got %d\n", i+2, len(row))
			continue
		}

		price, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			fmt.Printf("Skipping row %d: invalid price %q\n", i+2, row[2])
			continue
		}

		category := model.ProductCategory(row[3])
		switch category {
		case model.CategoryBase, model.CategoryMilk, model.CategorySyrup, model.CategoryTopping:
		default:
			fmt.Printf("Skipping row %d: unknown category %q\n", i+2, row[3])
			continue
		}

		product := model.Product{
			Name:        row[0],
			Description: row[1],
			Price:       price,
			Category:    category,
		}
		if len(row) > 4 {
			if stock, err := strconv.Atoi(row[4]); err == nil {
				product.StockQuantity = stock
			}
		}
		if len(row) > 5 {
			product.ImageURL = row[5]
		}

		products = append(products, product)
	}

	return products, nil
}

func defaultCatalogue() []model.Product {
	return []model.Product{
		{Name: "Dark Cocoa", Description: "70% cacao base, rich and bittersweet", Price: 350, Category: model.CategoryBase, StockQuantity: 100},
		{Name: "Milk Cocoa", Description: "Classic sweet cocoa base", Price: 300, Category: model.CategoryBase, StockQuantity: 100},
		{Name: "White Chocolate", Description: "Creamy white chocolate base", Price: 380, Category: model.CategoryBase, StockQuantity: 100},
		{Name: "Ruby Cocoa", Description: "Ruby cacao with a berry note", Price: 420, Category: model.CategoryBase, StockQuantity: 50},

		{Name: "Whole Milk", Description: "Standard whole milk", Price: 100, Category: model.CategoryMilk, StockQuantity: 200},
		{Name: "Oat Milk", Description: "Barista oat milk", Price: 150, Category: model.CategoryMilk, StockQuantity: 150},
		{Name: "Soy Milk", Description: "Unsweetened soy milk", Price: 130, Category: model.CategoryMilk, StockQuantity: 150},
		{Name: "Almond Milk", Description: "Lightly roasted almond milk", Price: 160, Category: model.CategoryMilk, StockQuantity: 120},

		{Name: "Caramel Syrup", Description: "Burnt caramel syrup", Price: 80, Category: model.CategorySyrup, StockQuantity: 300},
		{Name: "Hazelnut Syrup", Description: "Roasted hazelnut syrup", Price: 80, Category: model.CategorySyrup, StockQuantity: 300},
		{Name: "Vanilla Syrup", Description: "Madagascar vanilla syrup", Price: 80, Category: model.CategorySyrup, StockQuantity: 300},
		{Name: "Mint Syrup", Description: "Cool peppermint syrup", Price: 90, Category: model.CategorySyrup, StockQuantity: 200},

		{Name: "Marshmallow", Description: "Mini marshmallows", Price: 120, Category: model.CategoryTopping, StockQuantity: 250},
		{Name: "Whipped Cream", Description: "Fresh whipped cream", Price: 100, Category: model.CategoryTopping, StockQuantity: 250},
		{Name: "Cinnamon Powder", Description: "Ceylon cinnamon dusting", Price: 50, Category: model.CategoryTopping, StockQuantity: 400},
		{Name: "Chocolate Shavings", Description: "Dark chocolate shavings", Price: 110, Category: model.CategoryTopping, StockQuantity: 300},
	}
}
