package catalog

import "github.com/dukex/scribe/pkg/models"

func sampleProducts() []models.Product {
	return []models.Product{
		{
			ID:          "1",
			Name:        "Classic T-Shirt",
			Category:    "Tops",
			Price:       29.99,
			Stock:       150,
			SalesCount:  2450,
			Description: "Comfortable cotton classic t-shirt available in multiple colors",
		},
		{
			ID:          "2",
			Name:        "Denim Jeans",
			Category:    "Bottoms",
			Price:       79.99,
			Stock:       80,
			SalesCount:  1890,
			Description: "Premium denim jeans with classic fit",
		},
		{
			ID:          "3",
			Name:        "Summer Dress",
			Category:    "Dresses",
			Price:       59.99,
			Stock:       65,
			SalesCount:  1650,
			Description: "Light and breezy summer dress perfect for warm weather",
		},
		{
			ID:          "4",
			Name:        "Hooded Sweatshirt",
			Category:    "Hoodies",
			Price:       49.99,
			Stock:       120,
			SalesCount:  1420,
			Description: "Cozy hooded sweatshirt with kangaroo pocket",
		},
		{
			ID:          "5",
			Name:        "Athletic Shorts",
			Category:    "Bottoms",
			Price:       34.99,
			Stock:       200,
			SalesCount:  1200,
			Description: "Moisture-wicking athletic shorts for active lifestyle",
		},
		{
			ID:          "6",
			Name:        "Cardigan Sweater",
			Category:    "Sweaters",
			Price:       69.99,
			Stock:       45,
			SalesCount:  980,
			Description: "Elegant cardigan sweater perfect for layering",
		},
		{
			ID:          "7",
			Name:        "Button-Up Shirt",
			Category:    "Tops",
			Price:       44.99,
			Stock:       90,
			SalesCount:  890,
			Description: "Professional button-up shirt for work or casual wear",
		},
		{
			ID:          "8",
			Name:        "Yoga Leggings",
			Category:    "Activewear",
			Price:       39.99,
			Stock:       175,
			SalesCount:  760,
			Description: "High-performance yoga leggings with four-way stretch",
		},
	}
}

func sampleOrders() []models.Order {
	return []models.Order{
		{
			ID:           "12345",
			CustomerID:   "user_001",
			CustomerName: "Sarah Johnson",
			Status:       models.OrderStatusShipped,
			Items: []models.LineItem{
				{ProductID: "1", ProductName: "Classic T-Shirt", Quantity: 2, Price: 29.99},
				{ProductID: "2", ProductName: "Denim Jeans", Quantity: 1, Price: 79.99},
			},
			Total:             139.97,
			OrderDate:         "2024-01-20",
			EstimatedDelivery: "2024-01-25",
		},
		{
			ID:           "12346",
			CustomerID:   "user_002",
			CustomerName: "Mike Chen",
			Status:       models.OrderStatusDelivered,
			Items: []models.LineItem{
				{ProductID: "3", ProductName: "Summer Dress", Quantity: 1, Price: 59.99},
			},
			Total:             59.99,
			OrderDate:         "2024-01-18",
			EstimatedDelivery: "2024-01-23",
		},
		{
			ID:           "12347",
			CustomerID:   "user_003",
			CustomerName: "Emma Davis",
			Status:       models.OrderStatusProcessing,
			Items: []models.LineItem{
				{ProductID: "4", ProductName: "Hooded Sweatshirt", Quantity: 1, Price: 49.99},
				{ProductID: "5", ProductName: "Athletic Shorts", Quantity: 2, Price: 34.99},
			},
			Total:             119.97,
			OrderDate:         "2024-01-22",
			EstimatedDelivery: "2024-01-28",
		},
	}
}
