package handler

import (
	"context"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/adapters/wire"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	// EmployeeServiceName は社員サービスの完全修飾名です。
	EmployeeServiceName = "employees.v1.EmployeeService"
	// AuthServiceName は認証サービスの完全修飾名です。
	AuthServiceName = "employees.v1.AuthService"
)

// EmployeeServiceServer は EmployeeService のサーバー実装が満たすインターフェースです。
type EmployeeServiceServer interface {
	CreateEmployee(context.Context, *CreateEmployeeRequest) (*wire.Employee, error)
	GetEmployee(context.Context, *GetEmployeeRequest) (*wire.Employee, error)
	ListEmployees(context.Context, *ListEmployeesRequest) (*wire.EmployeePage, error)
	SearchEmployees(context.Context, *SearchEmployeesRequest) (*wire.EmployeePage, error)
	UpdateEmployee(context.Context, *UpdateEmployeeRequest) (*wire.Employee, error)
	DeleteEmployee(context.Context, *DeleteEmployeeRequest) (*emptypb.Empty, error)
	EmployeeHistory(context.Context, *EmployeeHistoryRequest) (*wire.AuditPage, error)
}

// AuthServiceServer は AuthService のサーバー実装が満たすインターフェースです。
type AuthServiceServer interface {
	Signup(context.Context, *wire.SignupRequest) (*wire.Account, error)
	SignIn(context.Context, *wire.SignInRequest) (*wire.SignInResponse, error)
	Activate(context.Context, *ActivateAccountRequest) (*wire.Account, error)
}

// EmployeeServiceDesc は EmployeeService のサービス定義です。
var EmployeeServiceDesc = grpc.ServiceDesc{
	ServiceName: EmployeeServiceName,
	HandlerType: (*EmployeeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(EmployeeServiceName, "CreateEmployee", EmployeeServiceServer.CreateEmployee),
		unary(EmployeeServiceName, "GetEmployee", EmployeeServiceServer.GetEmployee),
		unary(EmployeeServiceName, "ListEmployees", EmployeeServiceServer.ListEmployees),
		unary(EmployeeServiceName, "SearchEmployees", EmployeeServiceServer.SearchEmployees),
		unary(EmployeeServiceName, "UpdateEmployee", EmployeeServiceServer.UpdateEmployee),
		unary(EmployeeServiceName, "DeleteEmployee", EmployeeServiceServer.DeleteEmployee),
		unary(EmployeeServiceName, "EmployeeHistory", EmployeeServiceServer.EmployeeHistory),
	},
	Metadata: "employees/v1/employees.proto",
}

// AuthServiceDesc は AuthService のサービス定義です。
var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(AuthServiceName, "Signup", AuthServiceServer.Signup),
		unary(AuthServiceName, "SignIn", AuthServiceServer.SignIn),
		unary(AuthServiceName, "Activate", AuthServiceServer.Activate),
	},
	Metadata: "employees/v1/auth.proto",
}

// RegisterEmployeeServiceServer は EmployeeService をサーバーに登録します。
func RegisterEmployeeServiceServer(s grpc.ServiceRegistrar, srv EmployeeServiceServer) {
	s.RegisterService(&EmployeeServiceDesc, srv)
}

// RegisterAuthServiceServer は AuthService をサーバーに登録します。
func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthServiceDesc, srv)
}

// unary はサーバーインターフェースのメソッド式から MethodDesc を組み立てます。
func unary[S any, Req any, Resp any](service, method string, call func(S, context.Context, *Req) (Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			server := srv.(S)
			if interceptor == nil {
				return call(server, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(server, ctx, req.(*Req))
			})
		},
	}
}
