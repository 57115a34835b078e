package docs

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// SecuritySchemeName is the scheme protected operations refer to.
const SecuritySchemeName = "bearer-key"

func schemaRef(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
}

func bearer() *openapi3.SecurityRequirements {
	return openapi3.NewSecurityRequirements().
		With(openapi3.NewSecurityRequirement().Authenticate(SecuritySchemeName))
}

func response(desc string, schema *openapi3.SchemaRef) *openapi3.ResponseRef {
	r := openapi3.NewResponse().WithDescription(desc)
	if schema != nil {
		r = r.WithJSONSchemaRef(schema)
	}
	return &openapi3.ResponseRef{Value: r}
}

func errResponse(desc string) *openapi3.ResponseRef {
	return response(desc, schemaRef("RestError"))
}

func jsonBody(schema string) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(schemaRef(schema)),
	}
}

func idParams() openapi3.Parameters {
	return openapi3.Parameters{
		{Value: openapi3.NewPathParameter("id").WithSchema(openapi3.NewInt64Schema())},
	}
}

func listParams() openapi3.Parameters {
	return openapi3.Parameters{
		{Value: openapi3.NewQueryParameter("busca").WithSchema(openapi3.NewStringSchema())},
		{Value: openapi3.NewQueryParameter("page").WithSchema(openapi3.NewIntegerSchema())},
		{Value: openapi3.NewQueryParameter("size").WithSchema(openapi3.NewIntegerSchema())},
		{Value: openapi3.NewQueryParameter("sort").WithSchema(openapi3.NewStringSchema())},
	}
}

// crud describes the operations the users and tasks resources share.
func crud(tag, model, input string) (collection, item *openapi3.PathItem) {
	collection = &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags: []string{tag}, Summary: "List " + tag, Parameters: listParams(), Security: bearer(),
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, response("page of "+tag, schemaRef("PagedModel"))),
				openapi3.WithStatus(401, errResponse("not authenticated")),
			),
		},
	}
	item = &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags: []string{tag}, Summary: "Show " + model, Parameters: idParams(), Security: bearer(),
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, response(model, schemaRef(model))),
				openapi3.WithStatus(401, errResponse("not authenticated")),
				openapi3.WithStatus(404, errResponse("not found")),
			),
		},
		Put: &openapi3.Operation{
			Tags: []string{tag}, Summary: "Update " + model, Parameters: idParams(), Security: bearer(),
			RequestBody: jsonBody(input),
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, response("updated", schemaRef(model))),
				openapi3.WithStatus(400, errResponse("invalid fields")),
				openapi3.WithStatus(401, errResponse("not authenticated")),
				openapi3.WithStatus(404, errResponse("not found")),
			),
		},
		Delete: &openapi3.Operation{
			Tags: []string{tag}, Summary: "Delete " + model, Parameters: idParams(), Security: bearer(),
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(204, response("deleted", nil)),
				openapi3.WithStatus(401, errResponse("not authenticated")),
				openapi3.WithStatus(404, errResponse("not found")),
			),
		},
	}
	return collection, item
}

func schemas() openapi3.Schemas {
	str := openapi3.NewStringSchema
	date := func() *openapi3.Schema { return openapi3.NewStringSchema().WithFormat("date") }
	links := openapi3.NewObjectSchema

	credential := openapi3.NewObjectSchema().
		WithProperty("username", str()).
		WithProperty("password", str())
	credential.Required = []string{"username", "password"}

	userInput := openapi3.NewObjectSchema().
		WithProperty("username", str().WithMinLength(3).WithMaxLength(50)).
		WithProperty("password", str().WithMinLength(8).WithMaxLength(72)).
		WithProperty("roles", str())
	userInput.Required = []string{"username", "password", "roles"}

	taskInput := openapi3.NewObjectSchema().
		WithProperty("title", str().WithMinLength(3).WithMaxLength(50)).
		WithProperty("description", str().WithMaxLength(255)).
		WithProperty("status", str()).
		WithProperty("dueDate", date())
	taskInput.Required = []string{"title", "status", "dueDate"}

	page := openapi3.NewObjectSchema().
		WithProperty("size", openapi3.NewIntegerSchema()).
		WithProperty("totalElements", openapi3.NewInt64Schema()).
		WithProperty("totalPages", openapi3.NewIntegerSchema()).
		WithProperty("number", openapi3.NewIntegerSchema())

	token := openapi3.NewObjectSchema().
		WithProperty("token", str()).
		WithProperty("type", str()).
		WithProperty("prefix", str())

	user := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewInt64Schema()).
		WithProperty("username", str()).
		WithProperty("roles", str()).
		WithProperty("_links", links())

	task := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewInt64Schema()).
		WithProperty("title", str()).
		WithProperty("description", str()).
		WithProperty("status", str()).
		WithProperty("dueDate", date()).
		WithProperty("_links", links())

	paged := openapi3.NewObjectSchema().
		WithProperty("_embedded", openapi3.NewObjectSchema()).
		WithProperty("_links", links()).
		WithProperty("page", page)

	restError := openapi3.NewObjectSchema().
		WithProperty("cod", openapi3.NewIntegerSchema()).
		WithProperty("message", str()).
		WithProperty("fields", openapi3.NewObjectSchema())

	all := map[string]*openapi3.Schema{
		"Credential": credential,
		"Token":      token,
		"UserInput":  userInput,
		"User":       user,
		"TaskInput":  taskInput,
		"Task":       task,
		"PagedModel": paged,
		"RestError":  restError,
	}
	out := make(openapi3.Schemas, len(all))
	for name, s := range all {
		out[name] = openapi3.NewSchemaRef("", s)
	}
	return out
}

// NewDocument describes the service's HTTP API.
func NewDocument() *openapi3.T {
	users, user := crud("users", "User", "UserInput")
	tasks, task := crud("tasks", "Task", "TaskInput")
	tasks.Post = &openapi3.Operation{
		Tags: []string{"tasks"}, Summary: "Create Task", Security: bearer(),
		RequestBody: jsonBody("TaskInput"),
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(201, response("created", schemaRef("Task"))),
			openapi3.WithStatus(400, errResponse("invalid fields")),
			openapi3.WithStatus(401, errResponse("not authenticated")),
		),
	}
	signup := &openapi3.PathItem{Post: &openapi3.Operation{
		Tags: []string{"users"}, Summary: "Register User",
		RequestBody: jsonBody("UserInput"),
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(201, response("created", schemaRef("User"))),
			openapi3.WithStatus(400, errResponse("invalid fields")),
			openapi3.WithStatus(409, errResponse("username already taken")),
		),
	}}
	login := &openapi3.PathItem{Post: &openapi3.Operation{
		Tags: []string{"users"}, Summary: "Log in",
		RequestBody: jsonBody("Credential"),
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, response("token", schemaRef("Token"))),
			openapi3.WithStatus(401, errResponse("invalid credentials")),
		),
	}}

	paths := openapi3.NewPaths()
	paths.Set("/api/usuarios", users)
	paths.Set("/api/usuarios/{id}", user)
	paths.Set("/api/usuarios/cadastro", signup)
	paths.Set("/api/usuarios/login", login)
	paths.Set("/login", login)
	paths.Set("/api/tasks", tasks)
	paths.Set("/api/tasks/{id}", task)

	return &openapi3.T{
		OpenAPI: "3.0.1",
		Info: &openapi3.Info{
			Title:       "Tasks API",
			Description: "Task registry with JWT authentication",
			Version:     "v1",
		},
		Tags: openapi3.Tags{
			{Name: "users", Description: "Registered users and login"},
			{Name: "tasks", Description: "Task management"},
		},
		Paths: paths,
		Components: &openapi3.Components{
			Schemas: schemas(),
			SecuritySchemes: openapi3.SecuritySchemes{
				SecuritySchemeName: &openapi3.SecuritySchemeRef{Value: openapi3.NewJWTSecurityScheme()},
			},
		},
	}
}
