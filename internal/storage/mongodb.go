// mongodb.go - MongoDB persistence for scanned invoices, inventory, and
// recipes. One shared client for the process lifetime.

package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mitbach-app/invoice_ocr_backend/configs"
	"github.com/mitbach-app/invoice_ocr_backend/internal/invoice"
)

var mongoClient *mongo.Client
var mongoDB *mongo.Database

const queryTimeout = 5 * time.Second

// InvoiceRecord is a scanned invoice as persisted, scoped to the user who
// uploaded it.
type InvoiceRecord struct {
	ID         primitive.ObjectID       `bson:"_id,omitempty" json:"id"`
	UserID     string                   `bson:"user_id" json:"-"`
	Supplier   string                   `bson:"supplier" json:"supplier"`
	Total      float64                  `bson:"total" json:"total"`
	Date       string                   `bson:"date" json:"date"`
	Category   invoice.Category         `bson:"category" json:"category"`
	LineItems  []invoice.LineItem       `bson:"line_items" json:"lineItems"`
	Validation invoice.ValidationResult `bson:"validation" json:"validation"`
	RawText    string                   `bson:"raw_text" json:"rawText,omitempty"`
	Applied    bool                     `bson:"applied" json:"applied"`
	CreatedAt  time.Time                `bson:"created_at" json:"createdAt"`
}

// InventoryItem is one tracked stock item, keyed by user and product name.
type InventoryItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"-"`
	Name      string             `bson:"name" json:"name"`
	Unit      string             `bson:"unit" json:"unit"`
	Quantity  float64            `bson:"quantity" json:"quantity"`
	LastPrice float64            `bson:"last_price" json:"lastPrice"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Ingredient is one recipe component, in canonical units.
type Ingredient struct {
	Name     string  `bson:"name" json:"name"`
	Quantity float64 `bson:"quantity" json:"quantity"`
	Unit     string  `bson:"unit" json:"unit"`
}

// Recipe is a dish with its ingredient list. Servings scales the per-dish
// food cost.
type Recipe struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"user_id" json:"-"`
	Name        string             `bson:"name" json:"name"`
	Ingredients []Ingredient       `bson:"ingredients" json:"ingredients"`
	Servings    int                `bson:"servings" json:"servings"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// InitMongoDB connects and pings once at startup.
func InitMongoDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(configs.MONGO_URI))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	mongoClient = client
	mongoDB = client.Database(configs.MONGO_DB_NAME)

	log.Println("✅ Connected to MongoDB successfully!")
	return nil
}

// CloseMongoDB disconnects the shared client.
func CloseMongoDB() {
	if mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
		log.Println("MongoDB connection closed")
	}
}

// Ready reports whether a database connection was established. Persistence
// is optional; the scan endpoint works without it.
func Ready() bool {
	return mongoDB != nil
}

// SaveInvoice inserts a scanned invoice and returns its ID.
func SaveInvoice(rec *InvoiceRecord) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rec.CreatedAt = time.Now()
	res, err := mongoDB.Collection("invoices").InsertOne(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("failed to insert invoice: %w", err)
	}
	id := res.InsertedID.(primitive.ObjectID)
	rec.ID = id
	return id.Hex(), nil
}

// ListInvoices returns the user's invoices, newest first. category filters
// when non-empty.
func ListInvoices(userID string, category invoice.Category) ([]InvoiceRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID}
	if category != "" {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := mongoDB.Collection("invoices").Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer cursor.Close(ctx)

	results := []InvoiceRecord{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// GetInvoice fetches one invoice by hex ID, scoped to the user.
func GetInvoice(userID, id string) (*InvoiceRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice id: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var rec InvoiceRecord
	err = mongoDB.Collection("invoices").FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// MarkInvoiceApplied flags an invoice whose items were merged into
// inventory, so it is not applied twice.
func MarkInvoiceApplied(userID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid invoice id: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	_, err = mongoDB.Collection("invoices").UpdateOne(ctx,
		bson.M{"_id": oid, "user_id": userID},
		bson.M{"$set": bson.M{"applied": true}})
	return err
}

// InvoicesInRange returns invoices created inside [from, to), for expense
// reporting.
func InvoicesInRange(userID string, from, to time.Time) ([]InvoiceRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	filter := bson.M{
		"user_id":    userID,
		"created_at": bson.M{"$gte": from, "$lt": to},
	}
	cursor, err := mongoDB.Collection("invoices").Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer cursor.Close(ctx)

	results := []InvoiceRecord{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// UpsertInventoryItem adds quantity to an existing stock item or creates
// it. Matching is by user and exact product name.
func UpsertInventoryItem(userID, name, unit string, quantity, lastPrice float64) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID, "name": name}
	update := bson.M{
		"$inc": bson.M{"quantity": quantity},
		"$set": bson.M{
			"unit":       unit,
			"last_price": lastPrice,
			"updated_at": time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := mongoDB.Collection("inventory").UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert inventory item: %w", err)
	}
	return nil
}

// ListInventory returns the user's stock items sorted by name.
func ListInventory(userID string) ([]InventoryItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := mongoDB.Collection("inventory").Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer cursor.Close(ctx)

	results := []InventoryItem{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// FindInventoryItems fetches the stock items matching the given names, for
// recipe costing.
func FindInventoryItems(userID string, names []string) (map[string]InventoryItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID, "name": bson.M{"$in": names}}
	cursor, err := mongoDB.Collection("inventory").Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer cursor.Close(ctx)

	byName := make(map[string]InventoryItem)
	for cursor.Next(ctx) {
		var item InventoryItem
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		byName[item.Name] = item
	}
	return byName, cursor.Err()
}

// SaveRecipe inserts a recipe and returns its ID.
func SaveRecipe(rec *Recipe) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rec.CreatedAt = time.Now()
	res, err := mongoDB.Collection("recipes").InsertOne(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("failed to insert recipe: %w", err)
	}
	id := res.InsertedID.(primitive.ObjectID)
	rec.ID = id
	return id.Hex(), nil
}

// ListRecipes returns the user's recipes sorted by name.
func ListRecipes(userID string) ([]Recipe, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := mongoDB.Collection("recipes").Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer cursor.Close(ctx)

	results := []Recipe{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// GetRecipe fetches one recipe by hex ID, scoped to the user.
func GetRecipe(userID, id string) (*Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid recipe id: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var rec Recipe
	err = mongoDB.Collection("recipes").FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
