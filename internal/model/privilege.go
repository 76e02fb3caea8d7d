package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "inventory:adjust"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Adjust Inventory"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Supplier & collection intake
	{Code: "supplier:view", Name: "View Supplier"},
	{Code: "supplier:create", Name: "Create Supplier"},
	{Code: "supplier:update", Name: "Update Supplier"},
	{Code: "collection:view", Name: "View Milk Collection"},
	{Code: "collection:create", Name: "Record Milk Collection"},
	// Catalog
	{Code: "catalog:view", Name: "View Catalog"},
	{Code: "catalog:manage", Name: "Manage Catalog"},
	// Production batches
	{Code: "batch:view", Name: "View Batch"},
	{Code: "batch:create", Name: "Create Batch"},
	{Code: "batch:qc", Name: "Update Batch QC Status"},
	// Inventory
	{Code: "inventory:view", Name: "View Inventory"},
	{Code: "inventory:adjust", Name: "Adjust Inventory"},
	{Code: "inventory:transfer", Name: "Transfer Inventory"},
	// Routes & deliveries
	{Code: "route:view", Name: "View Route"},
	{Code: "route:create", Name: "Create Route"},
	{Code: "route:update", Name: "Update Route"},
	{Code: "delivery:update", Name: "Update Delivery Status"},
	// Ledger
	{Code: "ledger:view", Name: "View Ledger"},
	{Code: "ledger:create", Name: "Create Ledger Entry"},
	{Code: "ledger:refund", Name: "Refund Ledger Entry"},
	// Audit & dashboard
	{Code: "audit:view", Name: "View Audit Log"},
	{Code: "dashboard:view", Name: "View Dashboard"},
}
