// Package content holds the site-content resources: FAQs, terms sections and
// about-us entries. All three ride the generic pipeline unchanged.
package content

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/openshelf/internal/crud"
	"github.com/openshelf/openshelf/internal/rest"
	"github.com/openshelf/openshelf/internal/validation"
)

type FAQ struct {
	crud.Meta `bson:",inline"`
	Question  string `bson:"question" json:"question"`
	Answer    string `bson:"answer" json:"answer"`
}

type Term struct {
	crud.Meta `bson:",inline"`
	Title     string `bson:"title" json:"title"`
	Body      string `bson:"body" json:"body"`
	Order     int    `bson:"order" json:"order"`
}

type AboutUs struct {
	crud.Meta `bson:",inline"`
	Title     string `bson:"title" json:"title"`
	Body      string `bson:"body" json:"body"`
}

type CreateFAQRequest struct {
	Question string `json:"question" binding:"required,min=5,max=300"`
	Answer   string `json:"answer" binding:"required,min=2,max=3000"`
	IsActive *bool  `json:"isActive"`
}

type UpdateFAQRequest struct {
	Question *string `json:"question" binding:"omitempty,min=5,max=300"`
	Answer   *string `json:"answer" binding:"omitempty,min=2,max=3000"`
	IsActive *bool   `json:"isActive"`
}

type ListFAQsQuery struct {
	rest.ListQuery
	Question string `form:"question" binding:"omitempty,max=300"`
	IsActive *bool  `form:"isActive"`
}

func NewFAQsResource(db *mongo.Database) *rest.Resource[FAQ] {
	return &rest.Resource[FAQ]{
		Name:       "faqs",
		Store:      crud.NewStore[FAQ](db.Collection("faqs"), "question"),
		CreateBody: validation.Body[CreateFAQRequest](),
		UpdateBody: validation.Body[UpdateFAQRequest](),
		ListQuery:  validation.Query[ListFAQsQuery](),
		ToModel: func(c *gin.Context) (*FAQ, string) {
			req := validation.FromBody[CreateFAQRequest](c)
			f := &FAQ{Question: req.Question, Answer: req.Answer}
			f.IsActive = true
			if req.IsActive != nil {
				f.IsActive = *req.IsActive
			}
			return f, f.Question
		},
		ToUpdate: func(c *gin.Context) bson.M {
			req := validation.FromBody[UpdateFAQRequest](c)
			set := bson.M{}
			if req.Question != nil {
				set["question"] = *req.Question
			}
			if req.Answer != nil {
				set["answer"] = *req.Answer
			}
			if req.IsActive != nil {
				set["isActive"] = *req.IsActive
			}
			return set
		},
		ToFilter: func(c *gin.Context) crud.ListParams {
			q := validation.FromQuery[ListFAQsQuery](c)
			f := bson.M{}
			crud.Substring(f, "question", q.Question)
			crud.EqBool(f, "isActive", q.IsActive)
			return q.Params(f)
		},
	}
}

type CreateTermRequest struct {
	Title    string `json:"title" binding:"required,min=2,max=200"`
	Body     string `json:"body" binding:"required,min=2"`
	Order    int    `json:"order" binding:"omitempty,gte=0"`
	IsActive *bool  `json:"isActive"`
}

type UpdateTermRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=2,max=200"`
	Body     *string `json:"body" binding:"omitempty,min=2"`
	Order    *int    `json:"order" binding:"omitempty,gte=0"`
	IsActive *bool   `json:"isActive"`
}

type ListTermsQuery struct {
	rest.ListQuery
	Title    string `form:"title" binding:"omitempty,max=200"`
	IsActive *bool  `form:"isActive"`
}

func NewTermsResource(db *mongo.Database) *rest.Resource[Term] {
	return &rest.Resource[Term]{
		Name:       "terms",
		Store:      crud.NewStore[Term](db.Collection("terms"), "title"),
		CreateBody: validation.Body[CreateTermRequest](),
		UpdateBody: validation.Body[UpdateTermRequest](),
		ListQuery:  validation.Query[ListTermsQuery](),
		ToModel: func(c *gin.Context) (*Term, string) {
			req := validation.FromBody[CreateTermRequest](c)
			t := &Term{Title: req.Title, Body: req.Body, Order: req.Order}
			t.IsActive = true
			if req.IsActive != nil {
				t.IsActive = *req.IsActive
			}
			return t, t.Title
		},
		ToUpdate: func(c *gin.Context) bson.M {
			req := validation.FromBody[UpdateTermRequest](c)
			set := bson.M{}
			if req.Title != nil {
				set["title"] = *req.Title
			}
			if req.Body != nil {
				set["body"] = *req.Body
			}
			if req.Order != nil {
				set["order"] = *req.Order
			}
			if req.IsActive != nil {
				set["isActive"] = *req.IsActive
			}
			return set
		},
		ToFilter: func(c *gin.Context) crud.ListParams {
			q := validation.FromQuery[ListTermsQuery](c)
			f := bson.M{}
			crud.Substring(f, "title", q.Title)
			crud.EqBool(f, "isActive", q.IsActive)
			return q.Params(f)
		},
	}
}

type CreateAboutUsRequest struct {
	Title    string `json:"title" binding:"required,min=2,max=200"`
	Body     string `json:"body" binding:"required,min=2"`
	IsActive *bool  `json:"isActive"`
}

type UpdateAboutUsRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=2,max=200"`
	Body     *string `json:"body" binding:"omitempty,min=2"`
	IsActive *bool   `json:"isActive"`
}

type ListAboutUsQuery struct {
	rest.ListQuery
	Title    string `form:"title" binding:"omitempty,max=200"`
	IsActive *bool  `form:"isActive"`
}

func NewAboutUsResource(db *mongo.Database) *rest.Resource[AboutUs] {
	return &rest.Resource[AboutUs]{
		Name:       "aboutus",
		Store:      crud.NewStore[AboutUs](db.Collection("aboutus"), "title"),
		CreateBody: validation.Body[CreateAboutUsRequest](),
		UpdateBody: validation.Body[UpdateAboutUsRequest](),
		ListQuery:  validation.Query[ListAboutUsQuery](),
		ToModel: func(c *gin.Context) (*AboutUs, string) {
			req := validation.FromBody[CreateAboutUsRequest](c)
			a := &AboutUs{Title: req.Title, Body: req.Body}
			a.IsActive = true
			if req.IsActive != nil {
				a.IsActive = *req.IsActive
			}
			return a, a.Title
		},
		ToUpdate: func(c *gin.Context) bson.M {
			req := validation.FromBody[UpdateAboutUsRequest](c)
			set := bson.M{}
			if req.Title != nil {
				set["title"] = *req.Title
			}
			if req.Body != nil {
				set["body"] = *req.Body
			}
			if req.IsActive != nil {
				set["isActive"] = *req.IsActive
			}
			return set
		},
		ToFilter: func(c *gin.Context) crud.ListParams {
			q := validation.FromQuery[ListAboutUsQuery](c)
			f := bson.M{}
			crud.Substring(f, "title", q.Title)
			crud.EqBool(f, "isActive", q.IsActive)
			return q.Params(f)
		},
	}
}
