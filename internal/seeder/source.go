package seeder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Source document names, without extension.
const (
	DocProducts    = "products"
	DocStores      = "stores"
	DocVendors     = "vendors"
	DocCustomers   = "customers"
	DocOrderStatus = "orderStatus"
)

// Source supplies the static documents the leaf tables are built from.
type Source interface {
	Products() ([]Product, error)
	Stores() ([]Store, error)
	Vendors() ([]Vendor, error)
	Customers() ([]Customer, error)
	OrderStatuses() ([]OrderStatus, error)
}

type Product struct {
	UPC              string          `json:"upc" yaml:"upc"`
	Name             string          `json:"name" yaml:"name"`
	ShortDescription string          `json:"shortDescription" yaml:"shortDescription"`
	Manufacturer     string          `json:"manufacturer" yaml:"manufacturer"`
	RegularPrice     decimal.Decimal `json:"regularPrice" yaml:"regularPrice"`
	IncludedItemList []IncludedItem  `json:"includedItemList" yaml:"includedItemList"`
	CategoryPath     []CategoryRef   `json:"categoryPath" yaml:"categoryPath"`
}

type IncludedItem struct {
	IncludedItem string `json:"includedItem" yaml:"includedItem"`
}

type CategoryRef struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type Store struct {
	StoreID        int64  `json:"storeId" yaml:"storeId"`
	Name           string `json:"name" yaml:"name"`
	Phone          string `json:"phone" yaml:"phone"`
	Address        string `json:"address" yaml:"address"`
	Address2       string `json:"address2" yaml:"address2"`
	City           string `json:"city" yaml:"city"`
	Region         string `json:"region" yaml:"region"`
	FullPostalCode string `json:"fullPostalCode" yaml:"fullPostalCode"`
	Country        string `json:"country" yaml:"country"`
}

type Vendor struct {
	Name    string `json:"name" yaml:"name"`
	Phone   string `json:"phone" yaml:"phone"`
	Add1    string `json:"add_1" yaml:"add_1"`
	Add2    string `json:"add_2" yaml:"add_2"`
	City    string `json:"city" yaml:"city"`
	State   string `json:"state" yaml:"state"`
	Zip     string `json:"zip" yaml:"zip"`
	Country string `json:"country" yaml:"country"`
}

type Customer struct {
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	Email     string `json:"email" yaml:"email"`
	Phone     string `json:"phone" yaml:"phone"`
	Add1      string `json:"add_1" yaml:"add_1"`
	Add2      string `json:"add_2" yaml:"add_2"`
	City      string `json:"city" yaml:"city"`
	State     string `json:"state" yaml:"state"`
	Zip       string `json:"zip" yaml:"zip"`
	Country   string `json:"country" yaml:"country"`
}

type OrderStatus struct {
	Status string `json:"status" yaml:"status"`
}

// DirSource reads documents from a directory. Each document may be stored as
// .json, .yaml or .yml; the first extension present in that order wins.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Products() ([]Product, error) {
	return loadDocument[Product](s.dir, DocProducts)
}

func (s *DirSource) Stores() ([]Store, error) {
	return loadDocument[Store](s.dir, DocStores)
}

func (s *DirSource) Vendors() ([]Vendor, error) {
	return loadDocument[Vendor](s.dir, DocVendors)
}

func (s *DirSource) Customers() ([]Customer, error) {
	return loadDocument[Customer](s.dir, DocCustomers)
}

func (s *DirSource) OrderStatuses() ([]OrderStatus, error) {
	return loadDocument[OrderStatus](s.dir, DocOrderStatus)
}

var documentExtensions = []string{".json", ".yaml", ".yml"}

func loadDocument[T any](dir, name string) ([]T, error) {
	path, err := findDocument(dir, name)
	if err != nil {
		return nil, &SourceError{Name: name, Path: filepath.Join(dir, name+".json"), Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SourceError{Name: name, Path: path, Err: err}
	}

	var records []T
	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(data, &records)
	} else {
		err = yaml.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, &SourceError{Name: name, Path: path, Err: fmt.Errorf("failed to parse: %w", err)}
	}

	return records, nil
}

func findDocument(dir, name string) (string, error) {
	for _, ext := range documentExtensions {
		path := filepath.Join(dir, name+ext)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", fs.ErrNotExist
}
