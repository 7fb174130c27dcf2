package catalog

import "encoding/json"

// Schema is the JSON schema catalog files must satisfy.
const Schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["products", "orders"],
  "properties": {
    "products": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "price", "stock", "sales_count"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1},
          "category": {"type": "string"},
          "price": {"type": "number", "minimum": 0},
          "stock": {"type": "integer", "minimum": 0},
          "sales_count": {"type": "integer", "minimum": 0},
          "description": {"type": "string"}
        }
      }
    },
    "orders": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "customer_name", "status", "items", "total", "order_date"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "customer_id": {"type": "string"},
          "customer_name": {"type": "string"},
          "status": {"enum": ["pending", "processing", "shipped", "delivered", "cancelled"]},
          "items": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["product_id", "product_name", "quantity", "price"],
              "properties": {
                "product_id": {"type": "string"},
                "product_name": {"type": "string"},
                "quantity": {"type": "integer", "minimum": 1},
                "price": {"type": "number", "minimum": 0}
              }
            }
          },
          "total": {"type": "number", "minimum": 0},
          "order_date": {"type": "string"},
          "estimated_delivery": {"type": "string"}
        }
      }
    }
  }
}`

func decodeJSON(body []byte, v any) error {
	return json.Unmarshal(body, v)
}
