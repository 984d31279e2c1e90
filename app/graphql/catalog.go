// Package graphql exposes the public catalog and blog as a read-only
// GraphQL schema served at /graphql.
package graphql

import (
	"context"
	"errors"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/app/repositories"
	gql "github.com/shashiranjanraj/galeria/pkg/graphql"
)

type Catalog interface {
	List(ctx context.Context, f models.PaintingFilter) ([]models.Painting, models.PageMeta, error)
	Get(ctx context.Context, id string) (*models.Painting, error)
}

type Blog interface {
	List(ctx context.Context, f models.BlogFilter) ([]models.BlogPost, models.PageMeta, error)
	Published(ctx context.Context, slug string) (*models.BlogPost, error)
}

var dimensionsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Dimensions",
	Fields: graphql.Fields{
		"width":  &graphql.Field{Type: graphql.Float},
		"height": &graphql.Field{Type: graphql.Float},
	},
})

var paintingType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Painting",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (any, error) { return p.Source.(models.Painting).ID, nil },
		},
		"title":       &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"imageUrl":    &graphql.Field{Type: graphql.String},
		"images":      &graphql.Field{Type: graphql.NewList(graphql.String)},
		"price":       &graphql.Field{Type: graphql.Int},
		"dimensions":  &graphql.Field{Type: dimensionsType},
		"category":    &graphql.Field{Type: graphql.String},
		"technique":   &graphql.Field{Type: graphql.String},
		"year":        &graphql.Field{Type: graphql.Int},
		"available":   &graphql.Field{Type: graphql.Boolean},
		"featured":    &graphql.Field{Type: graphql.Boolean},
		"stock": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if s := p.Source.(models.Painting).Stock; s != nil {
					return *s, nil
				}
				return nil, nil
			},
		},
	},
})

var blogPostType = graphql.NewObject(graphql.ObjectConfig{
	Name: "BlogPost",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (any, error) { return p.Source.(models.BlogPost).ID, nil },
		},
		"title":         &graphql.Field{Type: graphql.String},
		"slug":          &graphql.Field{Type: graphql.String},
		"excerpt":       &graphql.Field{Type: graphql.String},
		"content":       &graphql.Field{Type: graphql.String},
		"coverImageUrl": &graphql.Field{Type: graphql.String},
		"tags":          &graphql.Field{Type: graphql.NewList(graphql.String)},
		"publishedAt": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if t := p.Source.(models.BlogPost).PublishedAt; t != nil {
					return t.Format(time.RFC3339), nil
				}
				return nil, nil
			},
		},
	},
})

func pageArgs(args graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	args["page"] = &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1}
	args["perPage"] = &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: models.DefaultPerPage}
	return args
}

func pageFrom(args map[string]any) models.Page {
	n, _ := args["page"].(int)
	per, _ := args["perPage"].(int)
	return models.Page{Number: n, PerPage: per}.Normalize()
}

func optionalBool(args map[string]any, name string) *bool {
	if v, ok := args[name].(bool); ok {
		return &v
	}
	return nil
}

// notFoundIsNull turns a missing document into a null result.
func notFoundIsNull[T any](v *T, err error) (any, error) {
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return *v, nil
}

// NewSchema builds the storefront schema.
func NewSchema(catalog Catalog, blog Blog) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"paintings": &graphql.Field{
				Type: graphql.NewList(paintingType),
				Args: pageArgs(graphql.FieldConfigArgument{
					"category":  &graphql.ArgumentConfig{Type: graphql.String},
					"search":    &graphql.ArgumentConfig{Type: graphql.String},
					"available": &graphql.ArgumentConfig{Type: graphql.Boolean},
					"featured":  &graphql.ArgumentConfig{Type: graphql.Boolean},
				}),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					category, _ := p.Args["category"].(string)
					search, _ := p.Args["search"].(string)
					items, _, err := catalog.List(p.Context, models.PaintingFilter{
						Category:  category,
						Search:    search,
						Available: optionalBool(p.Args, "available"),
						Featured:  optionalBool(p.Args, "featured"),
						Page:      pageFrom(p.Args),
					})
					return items, err
				},
			},
			"painting": &graphql.Field{
				Type: paintingType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(string)
					return notFoundIsNull(catalog.Get(p.Context, id))
				},
			},
			"blogPosts": &graphql.Field{
				Type: graphql.NewList(blogPostType),
				Args: pageArgs(graphql.FieldConfigArgument{
					"tag": &graphql.ArgumentConfig{Type: graphql.String},
				}),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					tag, _ := p.Args["tag"].(string)
					items, _, err := blog.List(p.Context, models.BlogFilter{
						PublishedOnly: true,
						Tag:           tag,
						Page:          pageFrom(p.Args),
					})
					return items, err
				},
			},
			"blogPost": &graphql.Field{
				Type: blogPostType,
				Args: graphql.FieldConfigArgument{
					"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					slug, _ := p.Args["slug"].(string)
					return notFoundIsNull(blog.Published(p.Context, slug))
				},
			},
		},
	})
	return gql.NewSchema(query)
}
